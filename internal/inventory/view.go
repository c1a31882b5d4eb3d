package inventory

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/erazemk/gripcheck/internal/model"
)

// All matches any category or status.
const All = "All"

// SortKey orders the filtered view.
type SortKey string

// Sort keys.
const (
	SortName        SortKey = "name"
	SortSerial      SortKey = "serial"
	SortLastChecked SortKey = "last-checked"
)

// ParseSortKey maps a query value to a sort key, defaulting to name.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "serial", "serialnumber", "serial_number", "serial-number":
		return SortSerial
	case "last-checked", "lastchecked", "last_checked", "recent":
		return SortLastChecked
	}
	return SortName
}

// Filter selects and orders equipment for display. Empty fields match
// everything.
type Filter struct {
	Search   string
	Category model.Category
	Status   model.Status
	Holder   string
	Sort     SortKey
}

// Apply returns the equipment matching f in f.Sort order. It never
// modifies items and returns the same order for the same input.
func Apply(items []model.Equipment, f Filter) []model.Equipment {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	holder := strings.ToLower(strings.TrimSpace(f.Holder))

	out := make([]model.Equipment, 0, len(items))
	for _, it := range items {
		if search != "" &&
			!strings.Contains(strings.ToLower(it.Name), search) &&
			!strings.Contains(strings.ToLower(it.SerialNumber), search) {
			continue
		}
		if f.Category != "" && f.Category != All && it.Category != f.Category {
			continue
		}
		if f.Status != "" && f.Status != All && it.Status != f.Status {
			continue
		}
		if holder != "" && !strings.Contains(strings.ToLower(it.CurrentHolder), holder) {
			continue
		}
		out = append(out, it)
	}

	switch f.Sort {
	case SortLastChecked:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].LastChecked, out[j].LastChecked
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			}
			return a.After(*b)
		})
	case SortSerial:
		col := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].SerialNumber, out[j].SerialNumber) < 0
		})
	default:
		col := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Name, out[j].Name) < 0
		})
	}
	return out
}
