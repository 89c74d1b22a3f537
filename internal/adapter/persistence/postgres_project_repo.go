package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/equilix/equilix/internal/domain"
	"github.com/equilix/equilix/internal/ports"
)

// PostgresProjectRepository implements ProjectRepository using PostgreSQL
type PostgresProjectRepository struct {
	db *sql.DB
}

// NewPostgresProjectRepository creates a new PostgreSQL project repository
func NewPostgresProjectRepository(db *sql.DB) ports.ProjectRepository {
	return &PostgresProjectRepository{db: db}
}

// Create saves a new project
func (r *PostgresProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (id, name, region, regulations, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		project.ID,
		project.Name,
		project.Region,
		pq.Array(project.Regulations),
		project.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// FindByID retrieves a project by its ID
func (r *PostgresProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `
		SELECT id, name, region, regulations, created_at
		FROM projects
		WHERE id = $1
	`

	var project domain.Project
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Region,
		pq.Array(&project.Regulations),
		&project.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return &project, nil
}

// List retrieves all projects
func (r *PostgresProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	query := `
		SELECT id, name, region, regulations, created_at
		FROM projects
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []*domain.Project{}
	for rows.Next() {
		var project domain.Project
		if err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Region,
			pq.Array(&project.Regulations),
			&project.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}
