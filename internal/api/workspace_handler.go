package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/velichkin/persona/internal/workspace"
)

// ListWorkspaces возвращает все зарегистрированные workspaces.
// GET /api/v1/workspaces
func (h *Handler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	workspaces, err := h.workspaceRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]WorkspaceResponse, len(workspaces))
	for i, ws := range workspaces {
		result[i] = WorkspaceFromDomain(ws)
	}

	List(w, result, len(result))
}

// CreateWorkspace регистрирует новый workspace.
// POST /api/v1/workspaces
func (h *Handler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" || req.Path == "" {
		BadRequest(w, "name and path are required")
		return
	}

	ws, err := workspace.Register(req.Name, req.Path)
	if err != nil {
		if errors.Is(err, workspace.ErrNotADirectory) || errors.Is(err, workspace.ErrNotARepository) {
			BadRequest(w, err.Error())
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	if err := h.workspaceRepo.Create(r.Context(), ws); err != nil {
		if HandleRepoError(w, h.logger, err, "") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Created(w, WorkspaceFromDomain(*ws))
}

// GetWorkspace возвращает workspace по ID.
// GET /api/v1/workspaces/{id}
func (h *Handler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid workspace id")
		return
	}

	ws, err := h.workspaceRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "workspace not found") {
		return
	}

	Success(w, WorkspaceFromDomain(*ws))
}

// GetWorkspaceStatus возвращает git-состояние workspace.
// GET /api/v1/workspaces/{id}/status
func (h *Handler) GetWorkspaceStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid workspace id")
		return
	}

	ws, err := h.workspaceRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "workspace not found") {
		return
	}

	status, err := h.inspector.Status(ws)
	if err != nil {
		if errors.Is(err, workspace.ErrNotARepository) {
			InvalidState(w, err.Error())
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Success(w, status)
}

// BindWorkspace привязывает персону к workspace.
// PUT /api/v1/workspaces/{id}/person
func (h *Handler) BindWorkspace(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid workspace id")
		return
	}

	var req BindWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	_, err = h.personRepo.GetByID(r.Context(), req.PersonID)
	if HandleRepoError(w, h.logger, err, "person not found") {
		return
	}

	if err := h.workspaceRepo.Bind(r.Context(), id, req.PersonID); err != nil {
		if HandleRepoError(w, h.logger, err, "workspace not found") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	ws, err := h.workspaceRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "workspace not found") {
		return
	}

	Success(w, WorkspaceFromDomain(*ws))
}

// MaterializeWorkspace перегенерирует PERSONA.md в workspace по запросу.
// POST /api/v1/workspaces/{id}/materialize
func (h *Handler) MaterializeWorkspace(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid workspace id")
		return
	}

	ws, err := h.workspaceRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "workspace not found") {
		return
	}

	if !ws.Bound() {
		InvalidState(w, "workspace has no bound person")
		return
	}

	person, err := h.personRepo.GetByID(r.Context(), ws.PersonID)
	if HandleRepoError(w, h.logger, err, "bound person not found") {
		return
	}

	profile, err := h.profileRepo.Get(r.Context(), person.ID)
	if HandleRepoError(w, h.logger, err, "profile not computed yet") {
		return
	}

	if err := workspace.Materialize(ws, person, profile); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, MaterializeResponse{
		WorkspaceID: ws.ID,
		File:        workspace.PersonaFileName,
	})
}

// DeleteWorkspace снимает workspace с учёта.
// DELETE /api/v1/workspaces/{id}
func (h *Handler) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid workspace id")
		return
	}

	if err := h.workspaceRepo.Delete(r.Context(), id); err != nil {
		if HandleRepoError(w, h.logger, err, "workspace not found") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	NoContent(w)
}
