package api

import (
	"net/http"

	"github.com/erazemk/gripcheck/internal/crew"
)

// CrewHandler handles the roster endpoints.
type CrewHandler struct {
	Crew *crew.Directory
}

// List handles GET /api/crew.
func (h *CrewHandler) List(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Crew.List())
}

// Create handles POST /api/crew.
func (h *CrewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req crew.NewMember
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Crew.Add(r.Context(), req)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, m)
}

// Delete handles DELETE /api/crew/{id}.
func (h *CrewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.Crew.Remove(r.Context(), r.PathValue("id")) {
		jsonError(w, http.StatusNotFound, "crew member not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "crew member removed"})
}
