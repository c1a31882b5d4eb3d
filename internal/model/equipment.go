package model

import (
	"strings"
	"time"
)

// Category groups equipment on the cart.
type Category string

// Equipment categories.
const (
	CategoryStands        Category = "Stands"
	CategoryLighting      Category = "Lighting"
	CategoryGripSupport   Category = "Grip Support"
	CategoryElectric      Category = "Electric"
	CategoryTextiles      Category = "Textiles & Flags"
	CategoryHardware      Category = "Hardware"
	CategoryCameraSupport Category = "Camera Support"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryStands,
	CategoryLighting,
	CategoryGripSupport,
	CategoryElectric,
	CategoryTextiles,
	CategoryHardware,
	CategoryCameraSupport,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches s against the known categories, ignoring case.
func ParseCategory(s string) (Category, bool) {
	for _, known := range Categories {
		if strings.EqualFold(strings.TrimSpace(s), string(known)) {
			return known, true
		}
	}
	return "", false
}

// Status is the lifecycle state of a single piece of equipment.
type Status string

// Equipment statuses.
const (
	StatusAvailable   Status = "Available"
	StatusCheckedOut  Status = "Checked Out"
	StatusMaintenance Status = "Maintenance"
	StatusLost        Status = "Lost"
	StatusDamaged     Status = "Damaged"
	StatusOnHold      Status = "On Hold"
)

// Statuses lists every status in display order.
var Statuses = []Status{
	StatusAvailable,
	StatusCheckedOut,
	StatusMaintenance,
	StatusLost,
	StatusDamaged,
	StatusOnHold,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// RetainsHolder reports whether equipment in this status keeps its holder
// fields. Only checked out and lost gear remembers who had it last.
func (s Status) RetainsHolder() bool {
	return s == StatusCheckedOut || s == StatusLost
}

// ParseStatus matches s against the known statuses, ignoring case. The
// hyphenated and squashed forms ("checked-out", "checkedout", "on-hold")
// are accepted as well.
func ParseStatus(s string) (Status, bool) {
	norm := normalizeEnum(s)
	for _, known := range Statuses {
		if norm == normalizeEnum(string(known)) {
			return known, true
		}
	}
	return "", false
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

// Equipment is one physical asset.
type Equipment struct {
	ID                    string        `json:"id"`
	Name                  string        `json:"name"`
	SerialNumber          string        `json:"serial_number"`
	Category              Category      `json:"category"`
	SubCategory           string        `json:"sub_category,omitempty"`
	Status                Status        `json:"status"`
	CurrentHolder         string        `json:"current_holder,omitempty"`
	CurrentHolderPosition string        `json:"current_holder_position,omitempty"`
	CurrentProject        string        `json:"current_project,omitempty"`
	LastChecked           *time.Time    `json:"last_checked,omitempty"`
	Notes                 string        `json:"notes,omitempty"`
	ImageURL              string        `json:"image_url,omitempty"`
	Location              string        `json:"location,omitempty"`
	History               []Transaction `json:"history"`
}

// Clone returns a deep copy so callers can't reach into repository state.
func (e Equipment) Clone() Equipment {
	out := e
	if e.LastChecked != nil {
		t := *e.LastChecked
		out.LastChecked = &t
	}
	if e.History != nil {
		out.History = make([]Transaction, len(e.History))
		copy(out.History, e.History)
	}
	return out
}

// ClearCustody drops holder, holder position and project.
func (e *Equipment) ClearCustody() {
	e.CurrentHolder = ""
	e.CurrentHolderPosition = ""
	e.CurrentProject = ""
}

// Prepend records tx as the newest history entry.
func (e *Equipment) Prepend(tx Transaction) {
	e.History = append([]Transaction{tx}, e.History...)
}
