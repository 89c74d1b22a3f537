package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/equilix/equilix/internal/usecase"
	"github.com/equilix/equilix/pkg/apperror"
)

const defaultLedgerLimit = 50

// AuditHandler handles HTTP requests for ledger read-back and verification
type AuditHandler struct {
	auditUseCase *usecase.AuditUseCase
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditUseCase *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{auditUseCase: auditUseCase}
}

// RegisterRoutes registers audit routes
func (h *AuditHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/audit/{project_id}/ledger", h.GetProjectLedger).Methods("GET")
	router.HandleFunc("/api/v1/audit/verify", h.VerifyChain).Methods("GET")
}

// GetProjectLedger returns the latest ledger entries recorded for a project
func (h *AuditHandler) GetProjectLedger(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	projectID := vars["project_id"]

	limit := defaultLedgerLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			writeError(w, apperror.NewBadRequest("Invalid limit"))
			return
		}
		limit = parsed
	}

	entries, err := h.auditUseCase.GetProjectLedger(r.Context(), projectID, limit)
	if err != nil {
		writeError(w, apperror.MapError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"project_id": projectID,
		"ledger":     entries,
	})
}

// VerifyChain re-derives the audit chain and reports the first broken
// sequence, if any
func (h *AuditHandler) VerifyChain(w http.ResponseWriter, r *http.Request) {
	response, err := h.auditUseCase.VerifyChain(r.Context())
	if err != nil {
		writeError(w, apperror.MapError(err))
		return
	}

	writeJSON(w, http.StatusOK, response)
}
