package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/equilix/equilix/internal/adapter/proposal"
	"github.com/equilix/equilix/internal/compliance"
	"github.com/equilix/equilix/internal/domain"
	"github.com/equilix/equilix/internal/ledger"
	"github.com/equilix/equilix/internal/ports"
)

// GeneratedRequirement represents the annotated test cases produced for one
// requirement
type GeneratedRequirement struct {
	RequirementID string             `json:"requirement_id"`
	Tests         []*domain.TestCase `json:"tests"`
}

// GenerateResponse represents the result of a generation run
type GenerateResponse struct {
	ProjectID string                  `json:"project_id"`
	Generated []*GeneratedRequirement `json:"generated"`
}

// ApproveResponse represents the result of approving a test case
type ApproveResponse struct {
	TestID   string `json:"test_id"`
	Status   string `json:"status"`
	Approver string `json:"approver"`
}

// GenerationUseCase orchestrates test generation: it obtains proposals,
// annotates each with compliance justifications and a risk score, persists
// the results and records the run in the audit ledger.
type GenerationUseCase struct {
	requirementRepo ports.RequirementRepository
	testCaseRepo    ports.TestCaseRepository
	source          ports.ProposalSource
	engine          *compliance.Engine
	auditLedger     *ledger.Ledger
	logger          *logrus.Logger
}

// NewGenerationUseCase creates a new generation use case
func NewGenerationUseCase(
	requirementRepo ports.RequirementRepository,
	testCaseRepo ports.TestCaseRepository,
	source ports.ProposalSource,
	engine *compliance.Engine,
	auditLedger *ledger.Ledger,
	logger *logrus.Logger,
) *GenerationUseCase {
	return &GenerationUseCase{
		requirementRepo: requirementRepo,
		testCaseRepo:    testCaseRepo,
		source:          source,
		engine:          engine,
		auditLedger:     auditLedger,
		logger:          logger,
	}
}

// GenerateTests produces annotated test cases for every requirement of the
// project. A failing proposal source never fails the run: the fixed fallback
// proposals are substituted per requirement.
func (uc *GenerationUseCase) GenerateTests(ctx context.Context, projectID string) (*GenerateResponse, error) {
	requirements, err := uc.requirementRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requirements: %w", err)
	}
	if len(requirements) == 0 {
		return nil, domain.ErrNoRequirements
	}

	generated := make([]*GeneratedRequirement, 0, len(requirements))
	for _, requirement := range requirements {
		proposals := uc.propose(ctx, requirement.Text)

		tests := make([]*domain.TestCase, 0, len(proposals))
		for _, p := range proposals {
			justification, riskScore := uc.engine.Assess(requirement.Text, p)
			testCase := domain.NewTestCase(projectID, requirement.ID, p, justification, riskScore)
			if err := uc.testCaseRepo.Create(ctx, testCase); err != nil {
				return nil, fmt.Errorf("failed to store test case: %w", err)
			}
			tests = append(tests, testCase)
		}

		generated = append(generated, &GeneratedRequirement{
			RequirementID: requirement.ID,
			Tests:         tests,
		})
	}

	payload, err := json.Marshal(domain.AuditAction{
		Action:    "generate",
		ProjectID: projectID,
		Count:     len(generated),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit payload: %w", err)
	}
	if _, err := uc.auditLedger.Append(ctx, payload); err != nil {
		return nil, fmt.Errorf("failed to record generation in ledger: %w", err)
	}

	return &GenerateResponse{ProjectID: projectID, Generated: generated}, nil
}

// propose asks the configured source for candidates and substitutes the fixed
// fallback set when the source fails or is unconfigured. The failure is
// logged, never surfaced.
func (uc *GenerationUseCase) propose(ctx context.Context, requirementText string) []domain.TestProposal {
	if uc.source == nil {
		return proposal.Fallback()
	}
	proposals, err := uc.source.Propose(ctx, requirementText)
	if err != nil || len(proposals) == 0 {
		uc.logger.WithError(err).Warn("proposal source unavailable, using fallback proposals")
		return proposal.Fallback()
	}
	return proposals
}

// ListTests returns the annotated test cases for a project, optionally
// filtered by cited regulation
func (uc *GenerationUseCase) ListTests(ctx context.Context, projectID, regulation string) ([]*domain.TestCase, error) {
	tests, err := uc.testCaseRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list test cases: %w", err)
	}
	if regulation == "" {
		return tests, nil
	}

	filtered := []*domain.TestCase{}
	for _, tc := range tests {
		if tc.CitesRegulation(regulation) {
			filtered = append(filtered, tc)
		}
	}
	return filtered, nil
}

// ApproveTest records a test approval in the audit ledger
func (uc *GenerationUseCase) ApproveTest(ctx context.Context, testID, approver string) (*ApproveResponse, error) {
	if approver == "" {
		approver = "qa"
	}

	testCase, err := uc.testCaseRepo.FindByID(ctx, testID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(domain.AuditAction{
		Action:    "approve_test",
		ProjectID: testCase.ProjectID,
		TestID:    testID,
		Approver:  approver,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit payload: %w", err)
	}
	if _, err := uc.auditLedger.Append(ctx, payload); err != nil {
		return nil, fmt.Errorf("failed to record approval in ledger: %w", err)
	}

	uc.logger.WithFields(logrus.Fields{
		"test_id":  testID,
		"approver": approver,
	}).Info("test approved")

	return &ApproveResponse{TestID: testID, Status: "approved", Approver: approver}, nil
}
