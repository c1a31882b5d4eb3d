// Package company holds the one-time onboarding profile.
package company

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/erazemk/gripcheck/internal/model"
	"github.com/erazemk/gripcheck/internal/notify"
	"github.com/erazemk/gripcheck/internal/store"
	"github.com/erazemk/gripcheck/internal/validate"
)

// ErrAlreadyConfigured is returned when onboarding runs a second time.
var ErrAlreadyConfigured = errors.New("company already configured")

// Setup is the onboarding form.
type Setup struct {
	Name  string                `json:"name" validate:"notblank,max=120"`
	Level model.ProductionLevel `json:"level" validate:"level"`
}

// Profile gates the app until a company exists.
type Profile struct {
	repo      *store.CompanyRepo
	validator *validate.Validator
	notifier  notify.Notifier
	now       func() time.Time
}

// NewProfile returns a profile over repo. Onboarding is announced through n.
func NewProfile(repo *store.CompanyRepo, v *validate.Validator, n notify.Notifier) *Profile {
	if n == nil {
		n = notify.Discard{}
	}
	return &Profile{
		repo:      repo,
		validator: v,
		notifier:  n,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the company, or nil before onboarding.
func (p *Profile) Get() *model.CompanyConfig {
	return p.repo.Get()
}

// Configured reports whether onboarding has completed.
func (p *Profile) Configured() bool {
	return p.repo.Get() != nil
}

// Onboard creates the company profile. It can only succeed once.
func (p *Profile) Onboard(ctx context.Context, in Setup) (*model.CompanyConfig, error) {
	if err := p.validator.Struct(in); err != nil {
		return nil, err
	}

	cfg := model.CompanyConfig{
		Name:        strings.TrimSpace(in.Name),
		Level:       in.Level,
		FoundedDate: p.now(),
	}
	if !p.repo.SetIfAbsent(ctx, cfg) {
		return nil, ErrAlreadyConfigured
	}
	slog.Info("company onboarded", "name", cfg.Name, "level", cfg.Level)
	p.notifier.Notify("Production Profile Created: "+cfg.Name, notify.Success)
	return &cfg, nil
}
