package ports

import (
	"context"

	"github.com/equilix/equilix/internal/domain"
)

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	// Create saves a new project
	Create(ctx context.Context, project *domain.Project) error

	// FindByID retrieves a project by its ID
	FindByID(ctx context.Context, id string) (*domain.Project, error)

	// List retrieves all projects
	List(ctx context.Context) ([]*domain.Project, error)
}

// RequirementRepository defines the interface for requirement persistence
type RequirementRepository interface {
	// Create saves a new requirement
	Create(ctx context.Context, requirement *domain.Requirement) error

	// ListByProject retrieves all requirements ingested for a project
	ListByProject(ctx context.Context, projectID string) ([]*domain.Requirement, error)
}

// TestCaseRepository defines the interface for annotated test case persistence
type TestCaseRepository interface {
	// Create saves a new annotated test case
	Create(ctx context.Context, testCase *domain.TestCase) error

	// FindByID retrieves a test case by its ID
	FindByID(ctx context.Context, id string) (*domain.TestCase, error)

	// ListByProject retrieves all test cases generated for a project
	ListByProject(ctx context.Context, projectID string) ([]*domain.TestCase, error)
}
