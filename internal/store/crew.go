package store

import (
	"context"
	"sync"

	"github.com/erazemk/gripcheck/internal/model"
)

// CrewRepo owns the crew roster.
type CrewRepo struct {
	mu      sync.RWMutex
	kv      KV
	members []model.CompanyMember
}

// NewCrewRepo loads the stored roster, falling back to the seed crew.
func NewCrewRepo(ctx context.Context, kv KV) *CrewRepo {
	return &CrewRepo{
		kv:      kv,
		members: Load(ctx, kv, KeyCrew, SeedCrew),
	}
}

// List returns a copy of the roster in insertion order.
func (r *CrewRepo) List() []model.CompanyMember {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.CompanyMember, len(r.members))
	copy(out, r.members)
	return out
}

// Get returns the member with the given id, or nil.
func (r *CrewRepo) Get(id string) *model.CompanyMember {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.members {
		if m.ID == id {
			return &m
		}
	}
	return nil
}

// Append adds m to the end of the roster.
func (r *CrewRepo) Append(ctx context.Context, m model.CompanyMember) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.members = append(r.members, m)
	_ = Save(ctx, r.kv, KeyCrew, r.members)
}

// Remove drops the member with the given id. It reports whether a member
// was removed; an unknown id leaves the roster and the store untouched.
func (r *CrewRepo) Remove(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.members[:0:0]
	for _, m := range r.members {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(r.members) {
		return false
	}
	r.members = kept
	_ = Save(ctx, r.kv, KeyCrew, r.members)
	return true
}
