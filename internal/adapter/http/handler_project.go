package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/equilix/equilix/internal/usecase"
	"github.com/equilix/equilix/pkg/apperror"
)

// maxUploadBytes bounds ingested requirement documents.
const maxUploadBytes = 10 << 20

// ProjectHandler handles HTTP requests for projects and requirement intake
type ProjectHandler struct {
	projectUseCase *usecase.ProjectUseCase
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectUseCase *usecase.ProjectUseCase) *ProjectHandler {
	return &ProjectHandler{projectUseCase: projectUseCase}
}

// RegisterRoutes registers project routes
func (h *ProjectHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/projects", h.CreateProject).Methods("POST")
	router.HandleFunc("/api/v1/projects", h.ListProjects).Methods("GET")
	router.HandleFunc("/api/v1/projects/{id}", h.GetProject).Methods("GET")
	router.HandleFunc("/api/v1/projects/{id}/ingest", h.IngestRequirements).Methods("POST")
}

// CreateProject handles project creation
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.NewBadRequest("Invalid request body"))
		return
	}

	project, err := h.projectUseCase.CreateProject(r.Context(), req)
	if err != nil {
		writeError(w, apperror.MapError(err))
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

// GetProject returns a single project by ID
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	project, err := h.projectUseCase.GetProject(r.Context(), vars["id"])
	if err != nil {
		writeError(w, apperror.MapError(err))
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// ListProjects returns all registered projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectUseCase.ListProjects(r.Context())
	if err != nil {
		writeError(w, apperror.MapError(err))
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

// IngestRequirements handles requirement intake, either as an uploaded file
// or as a raw "text" form field / query parameter
func (h *ProjectHandler) IngestRequirements(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	projectID := vars["id"]

	content, err := readIngestContent(r)
	if err != nil {
		writeError(w, apperror.NewBadRequest("Provide either a file or raw text in 'text' param."))
		return
	}

	response, err := h.projectUseCase.IngestRequirements(r.Context(), projectID, content)
	if err != nil {
		writeError(w, apperror.MapError(err))
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func readIngestContent(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err == nil {
		if file, _, err := r.FormFile("file"); err == nil {
			defer file.Close()
			b, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
			if err != nil {
				return "", err
			}
			return string(b), nil
		}
		if text := r.FormValue("text"); text != "" {
			return text, nil
		}
	}
	if text := r.URL.Query().Get("text"); text != "" {
		return text, nil
	}
	return "", io.EOF
}

// Response helpers shared by the handlers

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	writeJSON(w, appErr.Status, appErr)
}
