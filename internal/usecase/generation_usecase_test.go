package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equilix/equilix/internal/compliance"
	"github.com/equilix/equilix/internal/domain"
	"github.com/equilix/equilix/internal/ledger"
	"github.com/equilix/equilix/internal/ports"
)

type fakeRequirementRepo struct {
	requirements []*domain.Requirement
}

func (f *fakeRequirementRepo) Create(ctx context.Context, r *domain.Requirement) error {
	f.requirements = append(f.requirements, r)
	return nil
}

func (f *fakeRequirementRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Requirement, error) {
	out := []*domain.Requirement{}
	for _, r := range f.requirements {
		if r.ProjectID == projectID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeTestCaseRepo struct {
	testCases []*domain.TestCase
}

func (f *fakeTestCaseRepo) Create(ctx context.Context, tc *domain.TestCase) error {
	f.testCases = append(f.testCases, tc)
	return nil
}

func (f *fakeTestCaseRepo) FindByID(ctx context.Context, id string) (*domain.TestCase, error) {
	for _, tc := range f.testCases {
		if tc.ID == id {
			return tc, nil
		}
	}
	return nil, domain.ErrTestCaseNotFound
}

func (f *fakeTestCaseRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.TestCase, error) {
	out := []*domain.TestCase{}
	for _, tc := range f.testCases {
		if tc.ProjectID == projectID {
			out = append(out, tc)
		}
	}
	return out, nil
}

type failingSource struct{}

func (failingSource) Propose(ctx context.Context, requirementText string) ([]domain.TestProposal, error) {
	return nil, errors.New("upstream unavailable")
}

type staticSource struct {
	proposals []domain.TestProposal
}

func (s staticSource) Propose(ctx context.Context, requirementText string) ([]domain.TestProposal, error) {
	return s.proposals, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newGenerationFixture(t *testing.T, source ports.ProposalSource) (*GenerationUseCase, *fakeRequirementRepo, *fakeTestCaseRepo, *ledger.Ledger) {
	t.Helper()
	reqRepo := &fakeRequirementRepo{}
	tcRepo := &fakeTestCaseRepo{}
	auditLedger := ledger.New(ledger.NewInMemoryStore())
	uc := NewGenerationUseCase(reqRepo, tcRepo, source, compliance.NewEngine(), auditLedger, quietLogger())
	return uc, reqRepo, tcRepo, auditLedger
}

func TestGenerationUseCase_FallbackOnSourceFailure(t *testing.T) {
	uc, reqRepo, tcRepo, _ := newGenerationFixture(t, failingSource{})
	ctx := context.Background()

	require.NoError(t, reqRepo.Create(ctx, domain.NewRequirement("p1", "System stores PHI records.")))

	resp, err := uc.GenerateTests(ctx, "p1")
	require.NoError(t, err, "proposal source failure must never fail the run")
	require.Len(t, resp.Generated, 1)

	// Fallback supplies one positive and one negative scenario.
	assert.Len(t, resp.Generated[0].Tests, 2)
	assert.Equal(t, "Positive - happy path", resp.Generated[0].Tests[0].Title)
	assert.Equal(t, "Negative - invalid input", resp.Generated[0].Tests[1].Title)
	assert.Len(t, tcRepo.testCases, 2)
}

func TestGenerationUseCase_AnnotatesProposals(t *testing.T) {
	source := staticSource{proposals: []domain.TestProposal{
		{Title: "t", Steps: []string{"login"}},
	}}
	uc, reqRepo, _, _ := newGenerationFixture(t, source)
	ctx := context.Background()

	require.NoError(t, reqRepo.Create(ctx, domain.NewRequirement("p1", "System stores PHI records.")))

	resp, err := uc.GenerateTests(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, resp.Generated, 1)
	require.Len(t, resp.Generated[0].Tests, 1)

	tc := resp.Generated[0].Tests[0]
	require.Len(t, tc.Justification, 1)
	assert.Equal(t, "HIPAA", tc.Justification[0].Regulation)
	assert.Equal(t, "164.308", tc.Justification[0].Clause)
	assert.Equal(t, 0.6, tc.RiskScore)
}

func TestGenerationUseCase_RecordsRunInLedger(t *testing.T) {
	uc, reqRepo, _, auditLedger := newGenerationFixture(t, failingSource{})
	ctx := context.Background()

	require.NoError(t, reqRepo.Create(ctx, domain.NewRequirement("p1", "Generic requirement.")))

	_, err := uc.GenerateTests(ctx, "p1")
	require.NoError(t, err)

	entries, err := auditLedger.ReadLatest(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var action domain.AuditAction
	require.NoError(t, json.Unmarshal(entries[0].Payload, &action))
	assert.Equal(t, "generate", action.Action)
	assert.Equal(t, "p1", action.ProjectID)
	assert.Equal(t, 1, action.Count)
}

func TestGenerationUseCase_NoRequirements(t *testing.T) {
	uc, _, _, _ := newGenerationFixture(t, failingSource{})

	_, err := uc.GenerateTests(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNoRequirements)
}

func TestGenerationUseCase_ListTestsFiltersByRegulation(t *testing.T) {
	uc, _, tcRepo, _ := newGenerationFixture(t, failingSource{})
	ctx := context.Background()

	phi := domain.NewTestCase("p1", "r1", domain.TestProposal{Title: "phi"},
		[]domain.Justification{{Regulation: "HIPAA", Clause: "164.308"}}, 0.6)
	plain := domain.NewTestCase("p1", "r1", domain.TestProposal{Title: "plain"}, nil, 0.2)
	require.NoError(t, tcRepo.Create(ctx, phi))
	require.NoError(t, tcRepo.Create(ctx, plain))

	all, err := uc.ListTests(ctx, "p1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	hipaaOnly, err := uc.ListTests(ctx, "p1", "HIPAA")
	require.NoError(t, err)
	require.Len(t, hipaaOnly, 1)
	assert.Equal(t, phi.ID, hipaaOnly[0].ID)
}

func TestGenerationUseCase_ApproveTest(t *testing.T) {
	uc, _, tcRepo, auditLedger := newGenerationFixture(t, failingSource{})
	ctx := context.Background()

	tc := domain.NewTestCase("p1", "r1", domain.TestProposal{Title: "t"}, nil, 0.2)
	require.NoError(t, tcRepo.Create(ctx, tc))

	resp, err := uc.ApproveTest(ctx, tc.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, "qa", resp.Approver, "approver defaults to qa")

	entries, err := auditLedger.ReadLatest(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var action domain.AuditAction
	require.NoError(t, json.Unmarshal(entries[0].Payload, &action))
	assert.Equal(t, "approve_test", action.Action)
	assert.Equal(t, tc.ID, action.TestID)
}

func TestGenerationUseCase_ApproveUnknownTest(t *testing.T) {
	uc, _, _, auditLedger := newGenerationFixture(t, failingSource{})
	ctx := context.Background()

	_, err := uc.ApproveTest(ctx, "missing", "qa")
	assert.ErrorIs(t, err, domain.ErrTestCaseNotFound)

	// Nothing may reach the ledger for a rejected approval.
	entries, err := auditLedger.ReadLatest(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
