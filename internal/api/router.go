package api

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/erazemk/gripcheck/internal/assistant"
	"github.com/erazemk/gripcheck/internal/company"
	"github.com/erazemk/gripcheck/internal/crew"
	"github.com/erazemk/gripcheck/internal/inventory"
	"github.com/erazemk/gripcheck/internal/notify"
	"github.com/erazemk/gripcheck/internal/validate"
)

// Deps are the services the API serves. The assistant fields may be nil
// when no API key is configured; Dispatcher is always required.
type Deps struct {
	Engine    *inventory.Engine
	Crew      *crew.Directory
	Company   *company.Profile
	Feed      *notify.Feed
	Validator *validate.Validator

	Dispatcher *assistant.Dispatcher
	Chat       *assistant.Chat
	Images     *assistant.ImageGenerator
	Voice      *assistant.Voice

	// Per-IP budget for routes that call the model.
	RateLimit rate.Limit
	RateBurst int
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	companyHandler := &CompanyHandler{Profile: d.Company}
	equipmentHandler := &EquipmentHandler{Engine: d.Engine, Validator: d.Validator, Images: d.Images}
	pendingHandler := &PendingHandler{Engine: d.Engine, Crew: d.Crew}
	crewHandler := &CrewHandler{Crew: d.Crew}
	notificationsHandler := &NotificationsHandler{Feed: d.Feed}
	assistantHandler := &AssistantHandler{Dispatcher: d.Dispatcher, Chat: d.Chat, Voice: d.Voice}

	if d.RateLimit <= 0 {
		d.RateLimit = 2
	}
	if d.RateBurst <= 0 {
		d.RateBurst = 4
	}
	limited := RateLimit(NewIPRateLimiter(d.RateLimit, d.RateBurst))

	// Company profile (onboarding).
	mux.HandleFunc("GET /api/company", companyHandler.Get)
	mux.HandleFunc("POST /api/company", companyHandler.Create)

	// Equipment.
	mux.HandleFunc("GET /api/equipment", equipmentHandler.List)
	mux.HandleFunc("GET /api/equipment/export.xlsx", equipmentHandler.Export)
	mux.HandleFunc("POST /api/equipment", equipmentHandler.Create)
	mux.HandleFunc("GET /api/equipment/{id}", equipmentHandler.Get)
	mux.HandleFunc("GET /api/serials/{serial}", equipmentHandler.GetBySerial)
	mux.HandleFunc("PUT /api/equipment/{id}/notes", equipmentHandler.UpdateNotes)
	mux.HandleFunc("PUT /api/equipment/{id}/image", equipmentHandler.UploadImage)
	mux.Handle("POST /api/equipment/{id}/image/generate", limited(http.HandlerFunc(equipmentHandler.GenerateImage)))
	mux.HandleFunc("GET /api/equipment/{id}/history", equipmentHandler.History)
	mux.HandleFunc("POST /api/equipment/{id}/toggle", equipmentHandler.Toggle)
	mux.HandleFunc("POST /api/equipment/{id}/status", equipmentHandler.SetStatus)
	mux.HandleFunc("POST /api/equipment/{id}/project", equipmentHandler.AssignProject)

	// Staged actions.
	mux.HandleFunc("POST /api/bulk", pendingHandler.StageBulk)
	mux.HandleFunc("GET /api/pending", pendingHandler.Get)
	mux.HandleFunc("POST /api/pending/confirm", pendingHandler.Confirm)
	mux.HandleFunc("DELETE /api/pending", pendingHandler.Cancel)

	// Crew roster.
	mux.HandleFunc("GET /api/crew", crewHandler.List)
	mux.HandleFunc("POST /api/crew", crewHandler.Create)
	mux.HandleFunc("DELETE /api/crew/{id}", crewHandler.Delete)

	// Notifications.
	mux.HandleFunc("GET /api/notifications", notificationsHandler.List)
	mux.HandleFunc("DELETE /api/notifications/{id}", notificationsHandler.Dismiss)

	// Assistant.
	mux.Handle("POST /api/assistant/chat", limited(http.HandlerFunc(assistantHandler.SendChat)))
	mux.HandleFunc("DELETE /api/assistant/chat", assistantHandler.ResetChat)
	mux.HandleFunc("POST /api/assistant/actions", assistantHandler.Action)
	mux.Handle("GET /api/assistant/voice", limited(http.HandlerFunc(assistantHandler.VoiceSession)))

	return RequireOnboarding(d.Company)(mux)
}
