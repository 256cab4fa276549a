package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Persons
	mux.Handle("GET /api/v1/persons", chain(http.HandlerFunc(h.ListPersons)))
	mux.Handle("POST /api/v1/persons", chain(http.HandlerFunc(h.CreatePerson)))
	mux.Handle("GET /api/v1/persons/{id}", chain(http.HandlerFunc(h.GetPerson)))
	mux.Handle("PUT /api/v1/persons/{id}", chain(http.HandlerFunc(h.UpdatePerson)))
	mux.Handle("DELETE /api/v1/persons/{id}", chain(http.HandlerFunc(h.DeletePerson)))

	// Profile computation
	mux.Handle("POST /api/v1/persons/{id}/compute", chain(http.HandlerFunc(h.ComputePerson)))
	mux.Handle("GET /api/v1/persons/{id}/profile", chain(http.HandlerFunc(h.GetProfile)))

	// Memories
	mux.Handle("GET /api/v1/persons/{id}/memories", chain(http.HandlerFunc(h.ListMemories)))
	mux.Handle("POST /api/v1/persons/{id}/memories", chain(http.HandlerFunc(h.CreateMemory)))
	mux.Handle("GET /api/v1/memories/{id}", chain(http.HandlerFunc(h.GetMemory)))
	mux.Handle("POST /api/v1/memories/{id}/touch", chain(http.HandlerFunc(h.TouchMemory)))
	mux.Handle("DELETE /api/v1/memories/{id}", chain(http.HandlerFunc(h.DeleteMemory)))

	// Workspaces
	mux.Handle("GET /api/v1/workspaces", chain(http.HandlerFunc(h.ListWorkspaces)))
	mux.Handle("POST /api/v1/workspaces", chain(http.HandlerFunc(h.CreateWorkspace)))
	mux.Handle("GET /api/v1/workspaces/{id}", chain(http.HandlerFunc(h.GetWorkspace)))
	mux.Handle("GET /api/v1/workspaces/{id}/status", chain(http.HandlerFunc(h.GetWorkspaceStatus)))
	mux.Handle("PUT /api/v1/workspaces/{id}/person", chain(http.HandlerFunc(h.BindWorkspace)))
	mux.Handle("POST /api/v1/workspaces/{id}/materialize", chain(http.HandlerFunc(h.MaterializeWorkspace)))
	mux.Handle("DELETE /api/v1/workspaces/{id}", chain(http.HandlerFunc(h.DeleteWorkspace)))

	// Context resolution
	mux.Handle("POST /api/v1/resolve", chain(http.HandlerFunc(h.ResolveContext)))
}
