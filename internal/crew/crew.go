// Package crew manages the roster of people gear can be checked out to.
package crew

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/gripcheck/internal/model"
	"github.com/erazemk/gripcheck/internal/store"
	"github.com/erazemk/gripcheck/internal/validate"
)

// NewMember is a roster registration.
type NewMember struct {
	Name       string           `json:"name" validate:"notblank,max=120"`
	Position   string           `json:"position" validate:"notblank,max=120"`
	Department model.Department `json:"department" validate:"department"`
	Email      string           `json:"email" validate:"omitempty,email"`
	Phone      string           `json:"phone" validate:"omitempty,max=40"`
}

// Directory adds, removes and looks up crew members. Equipment records
// keep the member's name and position as text, so removing a member never
// touches them.
type Directory struct {
	repo      *store.CrewRepo
	validator *validate.Validator

	now   func() time.Time
	newID func() string
}

// NewDirectory returns a directory over repo.
func NewDirectory(repo *store.CrewRepo, v *validate.Validator) *Directory {
	return &Directory{
		repo:      repo,
		validator: v,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// List returns the roster in registration order.
func (d *Directory) List() []model.CompanyMember {
	return d.repo.List()
}

// Get returns the member with the given id, or nil.
func (d *Directory) Get(id string) *model.CompanyMember {
	return d.repo.Get(id)
}

// FindByName returns the first member whose name matches, ignoring case,
// or nil. Names aren't unique.
func (d *Directory) FindByName(name string) *model.CompanyMember {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	for _, m := range d.repo.List() {
		if strings.EqualFold(m.Name, name) {
			return &m
		}
	}
	return nil
}

// Add registers a member at the end of the roster.
func (d *Directory) Add(ctx context.Context, in NewMember) (*model.CompanyMember, error) {
	if err := d.validator.Struct(in); err != nil {
		return nil, err
	}

	m := model.CompanyMember{
		ID:         d.newID(),
		Name:       strings.TrimSpace(in.Name),
		Position:   strings.TrimSpace(in.Position),
		Department: in.Department,
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		JoinedDate: d.now(),
	}
	d.repo.Append(ctx, m)
	slog.Info("crew member added", "name", m.Name, "position", m.Position)
	return &m, nil
}

// Remove drops the member with the given id. An unknown id is a no-op and
// reports false.
func (d *Directory) Remove(ctx context.Context, id string) bool {
	removed := d.repo.Remove(ctx, id)
	if removed {
		slog.Info("crew member removed", "id", id)
	}
	return removed
}
