package inventory

import (
	"reflect"
	"testing"
	"time"

	"github.com/erazemk/gripcheck/internal/model"
	"github.com/erazemk/gripcheck/internal/store"
)

func ids(items []model.Equipment) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestApplyFilters(t *testing.T) {
	items := store.SeedInventory()

	tests := []struct {
		name     string
		filter   Filter
		expected []string
	}{
		{"search by name", Filter{Search: "stand"}, []string{"1", "2"}},
		{"search by serial", Filter{Search: "tx-1212"}, []string{"3"}},
		{"category", Filter{Category: model.CategoryGripSupport}, []string{"5", "6"}},
		{"category all", Filter{Category: All, Search: "variac"}, []string{"7"}},
		{"status", Filter{Status: model.StatusCheckedOut}, []string{"5", "2"}},
		{"holder substring", Filter{Holder: "miller"}, []string{"2"}},
		{"holder no match", Filter{Holder: "nobody"}, []string{}},
		{"combined", Filter{Category: model.CategoryStands, Status: model.StatusAvailable}, []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(items, tt.filter))
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestApplySortByName(t *testing.T) {
	got := ids(Apply(store.SeedInventory(), Filter{Sort: SortName}))
	// 12x12, 2k Variac, 40" C-Stand, Apple Box, Aputure, Combo, Sandbag
	want := []string{"3", "7", "1", "5", "4", "2", "6"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestApplySortBySerialIgnoresCase(t *testing.T) {
	items := []model.Equipment{
		{ID: "a", SerialNumber: "b-2"},
		{ID: "b", SerialNumber: "A-1"},
		{ID: "c", SerialNumber: "a-3"},
	}
	got := ids(Apply(items, Filter{Sort: SortSerial}))
	want := []string{"b", "c", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestApplySortByLastCheckedMissingLast(t *testing.T) {
	got := ids(Apply(store.SeedInventory(), Filter{Sort: SortLastChecked}))
	// 4 (05-21 17:00), 5 (05-21 08:15), 2 (05-20), 1 (05-19), then the
	// never-checked items in stored order.
	want := []string{"4", "5", "2", "1", "3", "6", "7"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	items := store.SeedInventory()
	ts := time.Date(2024, 5, 21, 17, 0, 0, 0, time.UTC)
	items[2].LastChecked = &ts // ties with item 4

	f := Filter{Search: "", Sort: SortLastChecked}
	first := Apply(items, f)
	for i := 0; i < 5; i++ {
		if !reflect.DeepEqual(first, Apply(items, f)) {
			t.Fatal("Apply returned a different result for the same input")
		}
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	items := store.SeedInventory()
	before := store.SeedInventory()

	Apply(items, Filter{Sort: SortName})
	if !reflect.DeepEqual(items, before) {
		t.Error("Apply reordered its input")
	}
}

func TestParseSortKey(t *testing.T) {
	tests := map[string]SortKey{
		"":             SortName,
		"name":         SortName,
		"serial":       SortSerial,
		"lastChecked":  SortLastChecked,
		"last-checked": SortLastChecked,
		"bogus":        SortName,
	}
	for in, want := range tests {
		if got := ParseSortKey(in); got != want {
			t.Errorf("ParseSortKey(%q) = %q, want %q", in, got, want)
		}
	}
}
