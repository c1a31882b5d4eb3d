package api

import (
	"errors"
	"net/http"

	"github.com/erazemk/gripcheck/internal/company"
)

// CompanyHandler handles the onboarding endpoints.
type CompanyHandler struct {
	Profile *company.Profile
}

// Get handles GET /api/company.
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg := h.Profile.Get()
	if cfg == nil {
		jsonError(w, http.StatusNotFound, "company not configured")
		return
	}
	jsonResponse(w, http.StatusOK, cfg)
}

// Create handles POST /api/company.
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req company.Setup
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg, err := h.Profile.Onboard(r.Context(), req)
	switch {
	case errors.Is(err, company.ErrAlreadyConfigured):
		jsonError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, cfg)
}
