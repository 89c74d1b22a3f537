package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/equilix/equilix/internal/domain"
	"github.com/equilix/equilix/internal/ports"
)

// PostgresRequirementRepository implements RequirementRepository using PostgreSQL
type PostgresRequirementRepository struct {
	db *sql.DB
}

// NewPostgresRequirementRepository creates a new PostgreSQL requirement repository
func NewPostgresRequirementRepository(db *sql.DB) ports.RequirementRepository {
	return &PostgresRequirementRepository{db: db}
}

// Create saves a new requirement
func (r *PostgresRequirementRepository) Create(ctx context.Context, requirement *domain.Requirement) error {
	query := `
		INSERT INTO requirements (id, project_id, text, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		requirement.ID,
		requirement.ProjectID,
		requirement.Text,
		requirement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create requirement: %w", err)
	}
	return nil
}

// ListByProject retrieves all requirements ingested for a project
func (r *PostgresRequirementRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Requirement, error) {
	query := `
		SELECT id, project_id, text, created_at
		FROM requirements
		WHERE project_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	defer rows.Close()

	requirements := []*domain.Requirement{}
	for rows.Next() {
		var requirement domain.Requirement
		if err := rows.Scan(
			&requirement.ID,
			&requirement.ProjectID,
			&requirement.Text,
			&requirement.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan requirement: %w", err)
		}
		requirements = append(requirements, &requirement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requirements: %w", err)
	}
	return requirements, nil
}
