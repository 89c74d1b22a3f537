package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/equilix/equilix/internal/domain"
	"github.com/equilix/equilix/internal/ledger"
	"github.com/equilix/equilix/internal/ports"
)

// CreateProjectRequest represents the payload for creating a project
type CreateProjectRequest struct {
	Name        string   `json:"name"`
	Region      string   `json:"region"`
	Regulations []string `json:"regulations"`
}

// IngestResponse represents the result of ingesting requirement text
type IngestResponse struct {
	ProjectID    string                `json:"project_id"`
	Ingested     int                   `json:"ingested"`
	Requirements []*domain.Requirement `json:"requirements"`
}

// ProjectUseCase handles project and requirement intake
type ProjectUseCase struct {
	projectRepo     ports.ProjectRepository
	requirementRepo ports.RequirementRepository
	auditLedger     *ledger.Ledger
	logger          *logrus.Logger
}

// NewProjectUseCase creates a new project use case
func NewProjectUseCase(
	projectRepo ports.ProjectRepository,
	requirementRepo ports.RequirementRepository,
	auditLedger *ledger.Ledger,
	logger *logrus.Logger,
) *ProjectUseCase {
	return &ProjectUseCase{
		projectRepo:     projectRepo,
		requirementRepo: requirementRepo,
		auditLedger:     auditLedger,
		logger:          logger,
	}
}

// CreateProject registers a new project
func (uc *ProjectUseCase) CreateProject(ctx context.Context, req CreateProjectRequest) (*domain.Project, error) {
	if req.Name == "" {
		return nil, domain.NewDomainError("project name is required")
	}

	project := domain.NewProject(req.Name, req.Region, req.Regulations)
	if err := uc.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	uc.logger.WithFields(logrus.Fields{
		"project_id": project.ID,
		"region":     project.Region,
	}).Info("project created")

	return project, nil
}

// GetProject retrieves a project by ID
func (uc *ProjectUseCase) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	return uc.projectRepo.FindByID(ctx, projectID)
}

// ListProjects returns all registered projects
func (uc *ProjectUseCase) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	return uc.projectRepo.List(ctx)
}

// IngestRequirements splits raw requirement text into individual requirements,
// persists them and records the action in the audit ledger.
func (uc *ProjectUseCase) IngestRequirements(ctx context.Context, projectID, content string) (*IngestResponse, error) {
	if content == "" {
		return nil, domain.ErrEmptyIngest
	}
	if _, err := uc.projectRepo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}

	var inserted []*domain.Requirement
	for _, text := range domain.SplitRequirements(content) {
		requirement := domain.NewRequirement(projectID, text)
		if err := uc.requirementRepo.Create(ctx, requirement); err != nil {
			return nil, fmt.Errorf("failed to store requirement: %w", err)
		}
		inserted = append(inserted, requirement)
	}

	payload, err := json.Marshal(domain.AuditAction{
		Action:    "ingest",
		ProjectID: projectID,
		Count:     len(inserted),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit payload: %w", err)
	}
	if _, err := uc.auditLedger.Append(ctx, payload); err != nil {
		return nil, fmt.Errorf("failed to record ingest in ledger: %w", err)
	}

	uc.logger.WithFields(logrus.Fields{
		"project_id": projectID,
		"ingested":   len(inserted),
	}).Info("requirements ingested")

	return &IngestResponse{
		ProjectID:    projectID,
		Ingested:     len(inserted),
		Requirements: inserted,
	}, nil
}
