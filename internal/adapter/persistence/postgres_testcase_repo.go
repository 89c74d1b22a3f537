package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/equilix/equilix/internal/domain"
	"github.com/equilix/equilix/internal/ports"
)

// PostgresTestCaseRepository implements TestCaseRepository using PostgreSQL
type PostgresTestCaseRepository struct {
	db *sql.DB
}

// NewPostgresTestCaseRepository creates a new PostgreSQL test case repository
func NewPostgresTestCaseRepository(db *sql.DB) ports.TestCaseRepository {
	return &PostgresTestCaseRepository{db: db}
}

// Create saves a new annotated test case
func (r *PostgresTestCaseRepository) Create(ctx context.Context, testCase *domain.TestCase) error {
	query := `
		INSERT INTO test_cases (id, project_id, requirement_id, title, steps, compliance_justification, risk_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	justificationJSON, err := json.Marshal(testCase.Justification)
	if err != nil {
		return fmt.Errorf("failed to marshal justification: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		testCase.ID,
		testCase.ProjectID,
		testCase.RequirementID,
		testCase.Title,
		pq.Array(testCase.Steps),
		justificationJSON,
		testCase.RiskScore,
		testCase.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create test case: %w", err)
	}
	return nil
}

// FindByID retrieves a test case by its ID
func (r *PostgresTestCaseRepository) FindByID(ctx context.Context, id string) (*domain.TestCase, error) {
	query := `
		SELECT id, project_id, requirement_id, title, steps, compliance_justification, risk_score, created_at
		FROM test_cases
		WHERE id = $1
	`

	testCase, err := scanTestCase(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrTestCaseNotFound
		}
		return nil, fmt.Errorf("failed to find test case: %w", err)
	}
	return testCase, nil
}

// ListByProject retrieves all test cases generated for a project
func (r *PostgresTestCaseRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.TestCase, error) {
	query := `
		SELECT id, project_id, requirement_id, title, steps, compliance_justification, risk_score, created_at
		FROM test_cases
		WHERE project_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list test cases: %w", err)
	}
	defer rows.Close()

	testCases := []*domain.TestCase{}
	for rows.Next() {
		testCase, err := scanTestCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan test case: %w", err)
		}
		testCases = append(testCases, testCase)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate test cases: %w", err)
	}
	return testCases, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTestCase(row rowScanner) (*domain.TestCase, error) {
	var testCase domain.TestCase
	var justificationJSON []byte

	if err := row.Scan(
		&testCase.ID,
		&testCase.ProjectID,
		&testCase.RequirementID,
		&testCase.Title,
		pq.Array(&testCase.Steps),
		&justificationJSON,
		&testCase.RiskScore,
		&testCase.CreatedAt,
	); err != nil {
		return nil, err
	}

	if len(justificationJSON) > 0 {
		if err := json.Unmarshal(justificationJSON, &testCase.Justification); err != nil {
			return nil, fmt.Errorf("failed to unmarshal justification: %w", err)
		}
	}
	return &testCase, nil
}
