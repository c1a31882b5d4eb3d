package store

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/erazemk/gripcheck/internal/model"
)

// EquipmentRepo owns the equipment collection. Every mutation rewrites the
// whole inventory document before the lock is released.
type EquipmentRepo struct {
	mu    sync.RWMutex
	kv    KV
	items []model.Equipment
}

// NewEquipmentRepo loads the stored inventory, falling back to the seed cart.
// Items with an unknown status or category are kept and logged.
func NewEquipmentRepo(ctx context.Context, kv KV) *EquipmentRepo {
	items := Load(ctx, kv, KeyInventory, SeedInventory)
	for _, e := range invalidEquipment(items) {
		slog.Warn("stored equipment has unknown enum values",
			"id", e.ID, "serial", e.SerialNumber, "status", e.Status, "category", e.Category)
	}
	return &EquipmentRepo{
		kv:    kv,
		items: items,
	}
}

func invalidEquipment(items []model.Equipment) []model.Equipment {
	var bad []model.Equipment
	for _, e := range items {
		if !e.Status.Valid() || !e.Category.Valid() {
			bad = append(bad, e)
		}
	}
	return bad
}

// List returns a copy of the full collection in stored order.
func (r *EquipmentRepo) List() []model.Equipment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Equipment, len(r.items))
	for i, e := range r.items {
		out[i] = e.Clone()
	}
	return out
}

// Get returns a copy of the equipment with the given id, or nil.
func (r *EquipmentRepo) Get(id string) *model.Equipment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.index(id); i >= 0 {
		e := r.items[i].Clone()
		return &e
	}
	return nil
}

// FindBySerial returns the first equipment whose serial matches, ignoring
// case and surrounding whitespace, or nil.
func (r *EquipmentRepo) FindBySerial(serial string) *model.Equipment {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.items {
		if strings.EqualFold(e.SerialNumber, serial) {
			c := e.Clone()
			return &c
		}
	}
	return nil
}

// Prepend adds e to the front of the collection.
func (r *EquipmentRepo) Prepend(ctx context.Context, e model.Equipment) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append([]model.Equipment{e.Clone()}, r.items...)
	r.save(ctx)
}

// Update applies fn to the equipment with the given id and persists the
// collection. It returns the updated copy, or nil when the id is unknown.
func (r *EquipmentRepo) Update(ctx context.Context, id string, fn func(*model.Equipment)) *model.Equipment {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return nil
	}
	fn(&r.items[i])
	r.save(ctx)

	e := r.items[i].Clone()
	return &e
}

// UpdateMany applies fn to every listed equipment. fn reports whether it
// changed the item. The collection is persisted once, and only if
// something changed. The changed items are returned in collection order.
func (r *EquipmentRepo) UpdateMany(ctx context.Context, ids []string, fn func(*model.Equipment) bool) []model.Equipment {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var changed []model.Equipment
	for i := range r.items {
		if !want[r.items[i].ID] {
			continue
		}
		if fn(&r.items[i]) {
			changed = append(changed, r.items[i].Clone())
		}
	}
	if len(changed) > 0 {
		r.save(ctx)
	}
	return changed
}

func (r *EquipmentRepo) index(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

// save must be called with mu held.
func (r *EquipmentRepo) save(ctx context.Context) {
	_ = Save(ctx, r.kv, KeyInventory, r.items)
}
