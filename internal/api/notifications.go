package api

import (
	"net/http"
	"strconv"

	"github.com/erazemk/gripcheck/internal/notify"
)

// NotificationsHandler serves the toast feed.
type NotificationsHandler struct {
	Feed *notify.Feed
}

// List handles GET /api/notifications.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Feed.Recent())
}

// Dismiss handles DELETE /api/notifications/{id}.
func (h *NotificationsHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	h.Feed.Dismiss(id)
	w.WriteHeader(http.StatusNoContent)
}
