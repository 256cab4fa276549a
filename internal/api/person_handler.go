package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/velichkin/persona/internal/domain"
	"github.com/velichkin/persona/internal/engine"
	"github.com/velichkin/persona/internal/telemetry"
)

// ListPersons возвращает список всех персон.
// GET /api/v1/persons
func (h *Handler) ListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.personRepo.List(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]PersonResponse, len(persons))
	for i, p := range persons {
		result[i] = PersonFromDomain(p)
	}

	List(w, result, len(result))
}

// CreatePerson создаёт новую персону.
// POST /api/v1/persons
func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}

	now := time.Now().UTC()
	person := &domain.Person{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Anchors:     req.Anchors,
		Quirks:      req.Quirks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if person.Anchors == nil {
		person.Anchors = map[string]float64{}
	}

	if err := h.personRepo.Create(r.Context(), person); err != nil {
		if HandleRepoError(w, h.logger, err, "") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Created(w, PersonFromDomain(*person))
}

// GetPerson возвращает персону по ID.
// GET /api/v1/persons/{id}
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid person id")
		return
	}

	person, err := h.personRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "person not found") {
		return
	}

	Success(w, PersonFromDomain(*person))
}

// UpdatePerson обновляет персону.
// PUT /api/v1/persons/{id}
func (h *Handler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid person id")
		return
	}

	var req UpdatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	person, err := h.personRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "person not found") {
		return
	}

	if req.Name != nil {
		person.Name = *req.Name
	}
	if req.Description != nil {
		person.Description = *req.Description
	}
	if req.Anchors != nil {
		person.Anchors = *req.Anchors
	}
	if req.Quirks != nil {
		person.Quirks = *req.Quirks
	}

	if err := h.personRepo.Update(r.Context(), person); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, PersonFromDomain(*person))
}

// DeletePerson удаляет персону.
// DELETE /api/v1/persons/{id}
func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid person id")
		return
	}

	if err := h.personRepo.Delete(r.Context(), id); err != nil {
		if HandleRepoError(w, h.logger, err, "person not found") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	NoContent(w)
}

// ComputePerson пересчитывает профиль персоны.
// POST /api/v1/persons/{id}/compute?policy=add-rule-delta|replace-with-anchor
func (h *Handler) ComputePerson(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid person id")
		return
	}

	policy, err := engine.ParseAnchorPolicy(r.URL.Query().Get("policy"))
	if err != nil {
		BadRequest(w, err.Error())
		return
	}

	person, err := h.personRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "person not found") {
		return
	}

	start := time.Now()
	result, err := h.composer.Compose(person, policy)
	if err != nil {
		telemetry.ComputePassesTotal.WithLabelValues(policy.String(), "error").Inc()
		InternalError(w, h.logger, err)
		return
	}
	telemetry.ComputeDuration.Observe(time.Since(start).Seconds())
	telemetry.ComputePassesTotal.WithLabelValues(policy.String(), "ok").Inc()
	if result.Trace != nil && len(result.Trace.CircularDependencies) > 0 {
		telemetry.CyclesDetectedTotal.Add(float64(len(result.Trace.CircularDependencies)))
	}

	if err := h.profileRepo.Save(r.Context(), result.Profile); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	// Не фатальная ошибка — профиль уже сохранён, orchestrator
	// подхватит при следующем пересчёте
	if h.publisher != nil {
		event := domain.PersonaComputedEvent{
			EventID:    uuid.New(),
			PersonID:   person.ID,
			Policy:     policy.String(),
			Targets:    len(result.Trace.ComputationOrder),
			Cycles:     len(result.Trace.CircularDependencies),
			ComputedAt: result.Profile.ComputedAt,
		}
		if err := h.publisher.PublishPersonaComputed(r.Context(), event); err != nil {
			h.logger.Warn("failed to publish persona.computed",
				"person_id", person.ID,
				"error", err,
			)
		}
	}

	Success(w, ComputeResponse{
		Profile: result.Profile,
		Policy:  policy.String(),
		Trace:   result.Trace,
	})
}

// GetProfile возвращает последний вычисленный профиль.
// GET /api/v1/persons/{id}/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid person id")
		return
	}

	profile, err := h.profileRepo.Get(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "profile not computed yet") {
		return
	}

	Success(w, profile)
}
