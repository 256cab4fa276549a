package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/velichkin/persona/internal/domain"
	"github.com/velichkin/persona/internal/memory"
)

// ListMemories возвращает воспоминания персоны.
// GET /api/v1/persons/{id}/memories
func (h *Handler) ListMemories(w http.ResponseWriter, r *http.Request) {
	personID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid person id")
		return
	}

	_, err = h.personRepo.GetByID(r.Context(), personID)
	if HandleRepoError(w, h.logger, err, "person not found") {
		return
	}

	memories, err := h.memoryRepo.ListByPerson(r.Context(), personID)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]MemoryResponse, len(memories))
	for i, m := range memories {
		result[i] = MemoryFromDomain(m)
	}

	List(w, result, len(result))
}

// CreateMemory создаёт воспоминание персоны.
// POST /api/v1/persons/{id}/memories
func (h *Handler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	personID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid person id")
		return
	}

	var req CreateMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Content == "" {
		BadRequest(w, "content is required")
		return
	}

	_, err = h.personRepo.GetByID(r.Context(), personID)
	if HandleRepoError(w, h.logger, err, "person not found") {
		return
	}

	halfLife := req.HalfLifeDays
	if halfLife <= 0 {
		halfLife = memory.DefaultHalfLifeDays
	}

	now := time.Now().UTC()
	m := &domain.Memory{
		ID:             uuid.New(),
		PersonID:       personID,
		Kind:           req.Kind,
		Content:        req.Content,
		Relevance:      1,
		HalfLifeDays:   halfLife,
		Pinned:         req.Pinned,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	if err := h.memoryRepo.Create(r.Context(), m); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Created(w, MemoryFromDomain(*m))
}

// GetMemory возвращает воспоминание по ID.
// GET /api/v1/memories/{id}
func (h *Handler) GetMemory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid memory id")
		return
	}

	m, err := h.memoryRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "memory not found") {
		return
	}

	Success(w, MemoryFromDomain(*m))
}

// TouchMemory отмечает обращение к воспоминанию.
// POST /api/v1/memories/{id}/touch
func (h *Handler) TouchMemory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid memory id")
		return
	}

	now := time.Now().UTC()
	if err := h.memoryRepo.Touch(r.Context(), id, now); err != nil {
		if HandleRepoError(w, h.logger, err, "memory not found") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	m, err := h.memoryRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "memory not found") {
		return
	}

	Success(w, MemoryFromDomain(*m))
}

// DeleteMemory удаляет воспоминание.
// DELETE /api/v1/memories/{id}
func (h *Handler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid memory id")
		return
	}

	if err := h.memoryRepo.Delete(r.Context(), id); err != nil {
		if HandleRepoError(w, h.logger, err, "memory not found") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	NoContent(w)
}
