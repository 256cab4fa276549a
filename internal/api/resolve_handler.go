package api

import (
	"encoding/json"
	"net/http"
)

// ResolveContext разрешает список context-URI.
// POST /api/v1/resolve
//
// Неразрешимые URI не делают запрос ошибочным: ответ содержит
// разрешённые элементы и список ошибок.
func (h *Handler) ResolveContext(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if len(req.URIs) == 0 {
		BadRequest(w, "uris is required")
		return
	}

	items, errs := h.resolver.ResolveAll(r.Context(), req.URIs)

	resp := ResolveResponse{Items: make([]ResolvedItem, len(items))}
	for i, item := range items {
		resp.Items[i] = ResolvedItem{
			URI:     item.URI,
			Kind:    item.Kind,
			Content: item.Content,
		}
	}
	for _, err := range errs {
		resp.Errors = append(resp.Errors, err.Error())
	}

	Success(w, resp)
}
