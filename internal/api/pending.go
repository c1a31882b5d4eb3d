package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erazemk/gripcheck/internal/crew"
	"github.com/erazemk/gripcheck/internal/inventory"
)

// PendingHandler handles staged actions: bulk staging, confirmation and
// cancellation.
type PendingHandler struct {
	Engine *inventory.Engine
	Crew   *crew.Directory
}

type bulkRequest struct {
	IDs    []string `json:"ids"`
	Action string   `json:"action"`
}

type confirmRequest struct {
	StageID  string `json:"stage_id"`
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

// StageBulk handles POST /api/bulk.
func (h *PendingHandler) StageBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	action, err := inventory.ParseAction(req.Action)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	staged, err := h.Engine.StageBulk(req.IDs, action)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, staged)
}

// Get handles GET /api/pending.
func (h *PendingHandler) Get(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{"pending": h.Engine.Pending()})
}

// Confirm handles POST /api/pending/confirm. The custodian comes from the
// roster when member_id is set, otherwise from name and position.
func (h *PendingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var custodian *inventory.Custodian
	switch {
	case req.MemberID != "":
		m := h.Crew.Get(req.MemberID)
		if m == nil {
			jsonError(w, http.StatusNotFound, "crew member not found")
			return
		}
		custodian = &inventory.Custodian{Name: m.Name, Position: m.Position}
	case strings.TrimSpace(req.Name) != "":
		custodian = &inventory.Custodian{Name: req.Name, Position: req.Position}
	}

	out, err := h.Engine.Confirm(r.Context(), req.StageID, custodian)
	switch {
	case errors.Is(err, inventory.ErrNothingPending), errors.Is(err, inventory.ErrStaleAction):
		jsonError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, inventory.ErrCustodianRequired):
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		jsonError(w, http.StatusInternalServerError, "failed to confirm action")
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

// Cancel handles DELETE /api/pending.
func (h *PendingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if !h.Engine.Cancel() {
		jsonError(w, http.StatusNotFound, inventory.ErrNothingPending.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "action cancelled"})
}
