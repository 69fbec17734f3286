package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/subtranslate/guard/project"
)

type createProjectRequest struct {
	Title      string `json:"title"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

func (a *API) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	now := time.Now().UTC()
	p := project.Project{
		ID:         uuid.New(),
		OwnerID:    userIDFrom(r.Context()),
		Title:      req.Title,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		Status:     project.StatusUploading,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := a.projects.Save(r.Context(), p); err != nil {
		a.logger.Errorw("saving project", "error", err, "project_id", p.ID)
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "Could not save project")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *API) handleListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := a.projects.ListByOwner(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		a.logger.Errorw("listing projects", "error", err)
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "Could not list projects")
		return
	}
	if list == nil {
		list = []project.Project{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, ok := a.loadOwnedProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type updateProjectRequest struct {
	Title      string         `json:"title"`
	SourceLang string         `json:"source_lang"`
	TargetLang string         `json:"target_lang"`
	Status     project.Status `json:"status"`
}

func (a *API) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	p, ok := a.loadOwnedProject(w, r)
	if !ok {
		return
	}

	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}
	if req.Title != "" {
		p.Title = req.Title
	}
	if req.SourceLang != "" {
		p.SourceLang = req.SourceLang
	}
	if req.TargetLang != "" {
		p.TargetLang = req.TargetLang
	}
	if req.Status != "" {
		p.Status = req.Status
	}
	p.UpdatedAt = time.Now().UTC()

	if err := a.projects.Save(r.Context(), *p); err != nil {
		a.logger.Errorw("updating project", "error", err, "project_id", p.ID)
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "Could not update project")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	p, ok := a.loadOwnedProject(w, r)
	if !ok {
		return
	}
	if err := a.projects.Delete(r.Context(), p.ID); err != nil {
		a.logger.Errorw("deleting project", "error", err, "project_id", p.ID)
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "Could not delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadOwnedProject fetches the project in the URL and enforces
// ownership. Projects of other users read as not found rather than
// confirming their existence.
func (a *API) loadOwnedProject(w http.ResponseWriter, r *http.Request) (*project.Project, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid project id")
		return nil, false
	}
	p, err := a.projects.Get(r.Context(), id)
	if errors.Is(err, project.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Project not found")
		return nil, false
	}
	if err != nil {
		a.logger.Errorw("loading project", "error", err, "project_id", id)
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", "Could not load project")
		return nil, false
	}
	if p.OwnerID != userIDFrom(r.Context()) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Project not found")
		return nil, false
	}
	return p, true
}
