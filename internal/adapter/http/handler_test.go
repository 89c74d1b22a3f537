package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equilix/equilix/internal/compliance"
	"github.com/equilix/equilix/internal/domain"
	"github.com/equilix/equilix/internal/ledger"
	"github.com/equilix/equilix/internal/usecase"
)

type memoryProjectRepo struct {
	projects map[string]*domain.Project
}

func (m *memoryProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	m.projects[p.ID] = p
	return nil
}

func (m *memoryProjectRepo) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	if p, ok := m.projects[id]; ok {
		return p, nil
	}
	return nil, domain.ErrProjectNotFound
}

func (m *memoryProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	out := []*domain.Project{}
	for _, p := range m.projects {
		out = append(out, p)
	}
	return out, nil
}

type memoryRequirementRepo struct {
	requirements []*domain.Requirement
}

func (m *memoryRequirementRepo) Create(ctx context.Context, r *domain.Requirement) error {
	m.requirements = append(m.requirements, r)
	return nil
}

func (m *memoryRequirementRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Requirement, error) {
	out := []*domain.Requirement{}
	for _, r := range m.requirements {
		if r.ProjectID == projectID {
			out = append(out, r)
		}
	}
	return out, nil
}

type memoryTestCaseRepo struct {
	testCases []*domain.TestCase
}

func (m *memoryTestCaseRepo) Create(ctx context.Context, tc *domain.TestCase) error {
	m.testCases = append(m.testCases, tc)
	return nil
}

func (m *memoryTestCaseRepo) FindByID(ctx context.Context, id string) (*domain.TestCase, error) {
	for _, tc := range m.testCases {
		if tc.ID == id {
			return tc, nil
		}
	}
	return nil, domain.ErrTestCaseNotFound
}

func (m *memoryTestCaseRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.TestCase, error) {
	out := []*domain.TestCase{}
	for _, tc := range m.testCases {
		if tc.ProjectID == projectID {
			out = append(out, tc)
		}
	}
	return out, nil
}

// newTestRouter wires the full handler stack over in-memory storage. The
// proposal source is left nil so generation exercises the fallback path.
func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	projectRepo := &memoryProjectRepo{projects: map[string]*domain.Project{}}
	requirementRepo := &memoryRequirementRepo{}
	testCaseRepo := &memoryTestCaseRepo{}
	auditLedger := ledger.New(ledger.NewInMemoryStore())

	projectUseCase := usecase.NewProjectUseCase(projectRepo, requirementRepo, auditLedger, logger)
	generationUseCase := usecase.NewGenerationUseCase(requirementRepo, testCaseRepo, nil, compliance.NewEngine(), auditLedger, logger)
	auditUseCase := usecase.NewAuditUseCase(auditLedger)

	router := mux.NewRouter()
	NewProjectHandler(projectUseCase).RegisterRoutes(router)
	NewTestHandler(generationUseCase).RegisterRoutes(router)
	NewAuditHandler(auditUseCase).RegisterRoutes(router)
	return router
}

func doRequest(t *testing.T, router *mux.Router, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createProject(t *testing.T, router *mux.Router) string {
	t.Helper()
	rec := doRequest(t, router, http.MethodPost, "/api/v1/projects",
		bytes.NewBufferString(`{"name":"ehr"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	var project domain.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	require.NotEmpty(t, project.ID)
	return project.ID
}

func ingestText(t *testing.T, router *mux.Router, projectID, text string) {
	t.Helper()
	rec := doRequest(t, router, http.MethodPost,
		"/api/v1/projects/"+projectID+"/ingest?text="+url.QueryEscape(text), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestProjectHandler_CreateProject(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/projects",
		bytes.NewBufferString(`{"name":"ehr","region":"EU","regulations":["GDPR"]}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	var project domain.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	assert.Equal(t, "ehr", project.Name)
	assert.Equal(t, "EU", project.Region)
	assert.Equal(t, []string{"GDPR"}, project.Regulations)
}

func TestProjectHandler_CreateProjectRejectsEmptyName(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/projects",
		bytes.NewBufferString(`{}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectHandler_GetAndList(t *testing.T) {
	router := newTestRouter(t)
	projectID := createProject(t, router)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/projects/"+projectID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var project domain.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	assert.Equal(t, projectID, project.ID)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var projects []*domain.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projects))
	assert.Len(t, projects, 1)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/projects/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectHandler_IngestRequiresContent(t *testing.T) {
	router := newTestRouter(t)
	projectID := createProject(t, router)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/projects/"+projectID+"/ingest", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectHandler_IngestUnknownProject(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/projects/missing/ingest?text=Store+PHI.", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTestHandler_GenerateAndList(t *testing.T) {
	router := newTestRouter(t)
	projectID := createProject(t, router)
	ingestText(t, router, projectID, "System stores PHI records.")

	rec := doRequest(t, router, http.MethodPost, "/api/v1/projects/"+projectID+"/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var generated usecase.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &generated))
	require.Len(t, generated.Generated, 1)
	assert.Len(t, generated.Generated[0].Tests, 2)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/projects/"+projectID+"/tests?regulation=HIPAA", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var tests []*domain.TestCase
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tests))
	require.Len(t, tests, 2)
	for _, tc := range tests {
		assert.True(t, tc.CitesRegulation("HIPAA"))
	}
}

func TestTestHandler_GenerateWithoutRequirements(t *testing.T) {
	router := newTestRouter(t)
	projectID := createProject(t, router)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/projects/"+projectID+"/generate", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTestHandler_ApproveTest(t *testing.T) {
	router := newTestRouter(t)
	projectID := createProject(t, router)
	ingestText(t, router, projectID, "Audit every change.")

	rec := doRequest(t, router, http.MethodPost, "/api/v1/projects/"+projectID+"/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var generated usecase.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &generated))
	testID := generated.Generated[0].Tests[0].ID

	rec = doRequest(t, router, http.MethodPost, "/api/v1/tests/"+testID+"/approve?approver=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var approved usecase.ApproveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &approved))
	assert.Equal(t, "approved", approved.Status)
	assert.Equal(t, "alice", approved.Approver)
}

func TestAuditHandler_LedgerAndVerify(t *testing.T) {
	router := newTestRouter(t)
	projectID := createProject(t, router)
	ingestText(t, router, projectID, "Encrypt data at rest.")

	rec := doRequest(t, router, http.MethodPost, "/api/v1/projects/"+projectID+"/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/audit/"+projectID+"/ledger", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var ledgerResp struct {
		ProjectID string                      `json:"project_id"`
		Ledger    []usecase.ProjectLedgerEntry `json:"ledger"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ledgerResp))
	require.Len(t, ledgerResp.Ledger, 2)
	assert.Equal(t, "generate", ledgerResp.Ledger[0].Action.Action)
	assert.Equal(t, "ingest", ledgerResp.Ledger[1].Action.Action)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/audit/verify", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"valid":true`))
}

func TestAuditHandler_InvalidLimit(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/audit/p1/ledger?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/audit/p1/ledger?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
