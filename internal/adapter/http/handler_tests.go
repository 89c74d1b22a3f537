package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/equilix/equilix/internal/usecase"
	"github.com/equilix/equilix/pkg/apperror"
)

// TestHandler handles HTTP requests for test generation and review
type TestHandler struct {
	generationUseCase *usecase.GenerationUseCase
}

// NewTestHandler creates a new test handler
func NewTestHandler(generationUseCase *usecase.GenerationUseCase) *TestHandler {
	return &TestHandler{generationUseCase: generationUseCase}
}

// RegisterRoutes registers test generation routes
func (h *TestHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/projects/{id}/generate", h.GenerateTests).Methods("POST")
	router.HandleFunc("/api/v1/projects/{id}/tests", h.ListTests).Methods("GET")
	router.HandleFunc("/api/v1/tests/{id}/approve", h.ApproveTest).Methods("POST")
}

// GenerateTests generates annotated test cases for every requirement of a
// project
func (h *TestHandler) GenerateTests(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	projectID := vars["id"]

	response, err := h.generationUseCase.GenerateTests(r.Context(), projectID)
	if err != nil {
		writeError(w, apperror.MapError(err))
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// ListTests lists the annotated test cases for a project, optionally
// filtered by cited regulation
func (h *TestHandler) ListTests(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	projectID := vars["id"]
	regulation := r.URL.Query().Get("regulation")

	tests, err := h.generationUseCase.ListTests(r.Context(), projectID, regulation)
	if err != nil {
		writeError(w, apperror.MapError(err))
		return
	}

	writeJSON(w, http.StatusOK, tests)
}

// ApproveTest records a test approval in the audit ledger
func (h *TestHandler) ApproveTest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	testID := vars["id"]
	approver := r.URL.Query().Get("approver")

	response, err := h.generationUseCase.ApproveTest(r.Context(), testID, approver)
	if err != nil {
		writeError(w, apperror.MapError(err))
		return
	}

	writeJSON(w, http.StatusOK, response)
}
