package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/erazemk/gripcheck/internal/assistant"
)

// AssistantHandler handles the GripBot endpoints.
type AssistantHandler struct {
	Dispatcher *assistant.Dispatcher
	Chat       *assistant.Chat
	Voice      *assistant.Voice
}

type chatRequest struct {
	Message string `json:"message"`
}

type actionRequest struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// SendChat handles POST /api/assistant/chat.
func (h *AssistantHandler) SendChat(w http.ResponseWriter, r *http.Request) {
	if h.Chat == nil {
		jsonError(w, http.StatusServiceUnavailable, "assistant not configured")
		return
	}

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		jsonError(w, http.StatusBadRequest, "message required")
		return
	}

	reply, err := h.Chat.Send(r.Context(), req.Message)
	if err != nil {
		slog.Error("assistant chat failed", "error", err)
		jsonError(w, http.StatusBadGateway, reply.Text)
		return
	}
	jsonResponse(w, http.StatusOK, reply)
}

// ResetChat handles DELETE /api/assistant/chat.
func (h *AssistantHandler) ResetChat(w http.ResponseWriter, r *http.Request) {
	if h.Chat != nil {
		h.Chat.Reset()
	}
	w.WriteHeader(http.StatusNoContent)
}

// Action handles POST /api/assistant/actions. It runs one action directly,
// without a model round trip.
func (h *AssistantHandler) Action(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res := h.Dispatcher.Dispatch(r.Context(), req.Name, req.Args)
	if !res.OK {
		jsonError(w, http.StatusBadRequest, res.Message)
		return
	}
	jsonResponse(w, http.StatusOK, res)
}

// VoiceSession handles GET /api/assistant/voice. Binary frames carry 16 kHz PCM
// from the client and 24 kHz PCM back; text frames carry JSON events.
func (h *AssistantHandler) VoiceSession(w http.ResponseWriter, r *http.Request) {
	if h.Voice == nil {
		jsonError(w, http.StatusServiceUnavailable, "assistant not configured")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		slog.Warn("voice upgrade failed", "error", err)
		return
	}

	slog.Info("voice session started", "remote", r.RemoteAddr)
	if err := h.Voice.Run(r.Context(), newAudioConn(conn)); err != nil {
		slog.Error("voice session failed", "remote", r.RemoteAddr, "error", err)
	}
}
