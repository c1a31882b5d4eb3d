package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/gripcheck/internal/assistant"
	"github.com/erazemk/gripcheck/internal/export"
	"github.com/erazemk/gripcheck/internal/imaging"
	"github.com/erazemk/gripcheck/internal/inventory"
	"github.com/erazemk/gripcheck/internal/model"
	"github.com/erazemk/gripcheck/internal/validate"
)

// maxUploadSize caps image uploads.
const maxUploadSize = 5 << 20

// EquipmentHandler handles equipment endpoints.
type EquipmentHandler struct {
	Engine    *inventory.Engine
	Validator *validate.Validator
	Images    *assistant.ImageGenerator
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type projectRequest struct {
	Project string `json:"project"`
	Actor   string `json:"actor"`
}

// ParseFilter reads the view filter from query parameters. Unknown
// category or status values are errors; "All" and empty mean no filter.
func ParseFilter(q map[string][]string) (inventory.Filter, error) {
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	f := inventory.Filter{
		Search: get("search"),
		Holder: get("holder"),
		Sort:   inventory.ParseSortKey(get("sort")),
	}
	if c := get("category"); c != "" && !strings.EqualFold(c, inventory.All) {
		cat, ok := model.ParseCategory(c)
		if !ok {
			return f, errors.New("unknown category")
		}
		f.Category = cat
	}
	if s := get("status"); s != "" && !strings.EqualFold(s, inventory.All) {
		st, ok := model.ParseStatus(s)
		if !ok {
			return f, errors.New("unknown status")
		}
		f.Status = st
	}
	return f, nil
}

func (h *EquipmentHandler) view(w http.ResponseWriter, r *http.Request) ([]model.Equipment, bool) {
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return inventory.Apply(h.Engine.List(), f), true
}

// List handles GET /api/equipment.
func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	items, ok := h.view(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Export handles GET /api/equipment/export.xlsx.
func (h *EquipmentHandler) Export(w http.ResponseWriter, r *http.Request) {
	items, ok := h.view(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, items); err != nil {
		slog.Error("failed to export manifest", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to export manifest")
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="gripcheck-manifest.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Create handles POST /api/equipment.
func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inventory.NewEquipment
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.Engine.Add(r.Context(), req)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/equipment/{id}.
func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	item := h.Engine.Get(r.PathValue("id"))
	if item == nil {
		jsonError(w, http.StatusNotFound, "equipment not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// GetBySerial handles GET /api/serials/{serial}.
func (h *EquipmentHandler) GetBySerial(w http.ResponseWriter, r *http.Request) {
	item := h.Engine.FindBySerial(r.PathValue("serial"))
	if item == nil {
		jsonError(w, http.StatusNotFound, "equipment not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// UpdateNotes handles PUT /api/equipment/{id}/notes.
func (h *EquipmentHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item := h.Engine.UpdateNotes(r.Context(), r.PathValue("id"), req.Notes)
	if item == nil {
		jsonError(w, http.StatusNotFound, "equipment not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// UploadImage handles PUT /api/equipment/{id}/image.
func (h *EquipmentHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if h.Engine.Get(id) == nil {
		jsonError(w, http.StatusNotFound, "equipment not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	// The format is sniffed from the bytes, not the client's header.
	img, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item := h.Engine.UpdateImage(r.Context(), id, img.DataURL())
	if item == nil {
		jsonError(w, http.StatusNotFound, "equipment not found")
		return
	}
	slog.Info("equipment image uploaded", "serial", item.SerialNumber, "bytes", len(img.Data))
	jsonResponse(w, http.StatusOK, item)
}

// GenerateImage handles POST /api/equipment/{id}/image/generate. A model
// response without an image leaves the current picture in place.
func (h *EquipmentHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	item := h.Engine.Get(id)
	if item == nil {
		jsonError(w, http.StatusNotFound, "equipment not found")
		return
	}
	if h.Images == nil {
		jsonError(w, http.StatusServiceUnavailable, "assistant not configured")
		return
	}

	data, err := h.Images.Generate(r.Context(), item.Name)
	if err != nil {
		slog.Error("image generation failed", "serial", item.SerialNumber, "error", err)
		jsonError(w, http.StatusBadGateway, "image generation failed, try again")
		return
	}
	if data == nil {
		jsonResponse(w, http.StatusOK, item)
		return
	}

	img, err := imaging.Process(bytes.NewReader(data))
	if err != nil {
		slog.Error("generated image unusable", "serial", item.SerialNumber, "error", err)
		jsonError(w, http.StatusBadGateway, "image generation failed, try again")
		return
	}

	updated := h.Engine.UpdateImage(r.Context(), id, img.DataURL())
	if updated == nil {
		jsonError(w, http.StatusNotFound, "equipment not found")
		return
	}
	slog.Info("equipment image generated", "serial", updated.SerialNumber)
	jsonResponse(w, http.StatusOK, updated)
}

// History handles GET /api/equipment/{id}/history.
func (h *EquipmentHandler) History(w http.ResponseWriter, r *http.Request) {
	typ := model.TransactionType(strings.TrimSpace(r.URL.Query().Get("type")))
	if typ != "" && !typ.Valid() {
		jsonError(w, http.StatusBadRequest, "unknown transaction type")
		return
	}

	history, ok := h.Engine.History(r.PathValue("id"), typ)
	if !ok {
		jsonError(w, http.StatusNotFound, "equipment not found")
		return
	}
	jsonResponse(w, http.StatusOK, history)
}

// Toggle handles POST /api/equipment/{id}/toggle. Available gear gets a
// staged check-out (202); anything else goes straight back to base.
func (h *EquipmentHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	res, ok := h.Engine.ToggleStatus(r.Context(), r.PathValue("id"))
	if !ok {
		jsonError(w, http.StatusNotFound, "equipment not found")
		return
	}
	if res.Staged != nil {
		jsonResponse(w, http.StatusAccepted, res)
		return
	}
	jsonResponse(w, http.StatusOK, res)
}

// SetStatus handles POST /api/equipment/{id}/status.
func (h *EquipmentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status, ok := model.ParseStatus(req.Status)
	if !ok {
		jsonError(w, http.StatusBadRequest, "unknown status")
		return
	}

	item, err := h.Engine.QuickStatusUpdate(r.Context(), r.PathValue("id"), status)
	switch {
	case errors.Is(err, inventory.ErrCustodianRequired):
		jsonError(w, http.StatusBadRequest, "use check-out to assign gear to someone")
		return
	case err != nil:
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	case item == nil:
		jsonError(w, http.StatusNotFound, "equipment not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// AssignProject handles POST /api/equipment/{id}/project.
func (h *EquipmentHandler) AssignProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Project) == "" {
		jsonError(w, http.StatusBadRequest, "project required")
		return
	}
	actor := strings.TrimSpace(req.Actor)
	if actor == "" {
		actor = inventory.ActorAdmin
	}

	item := h.Engine.AssignProject(r.Context(), r.PathValue("id"), req.Project, actor)
	if item == nil {
		jsonError(w, http.StatusNotFound, "equipment not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}
