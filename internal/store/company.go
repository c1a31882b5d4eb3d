package store

import (
	"context"
	"sync"

	"github.com/erazemk/gripcheck/internal/model"
)

// CompanyRepo owns the onboarding profile.
type CompanyRepo struct {
	mu      sync.RWMutex
	kv      KV
	profile *model.CompanyConfig
}

// NewCompanyRepo loads the stored profile. A missing or malformed profile
// leaves the repository empty, which sends the app back to onboarding.
func NewCompanyRepo(ctx context.Context, kv KV) *CompanyRepo {
	return &CompanyRepo{
		kv:      kv,
		profile: Load(ctx, kv, KeyCompany, func() *model.CompanyConfig { return nil }),
	}
}

// Get returns a copy of the profile, or nil if onboarding hasn't happened.
func (r *CompanyRepo) Get() *model.CompanyConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.profile == nil {
		return nil
	}
	c := *r.profile
	return &c
}

// SetIfAbsent stores cfg unless a profile already exists. It reports
// whether cfg was stored.
func (r *CompanyRepo) SetIfAbsent(ctx context.Context, cfg model.CompanyConfig) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.profile != nil {
		return false
	}
	r.profile = &cfg
	_ = Save(ctx, r.kv, KeyCompany, r.profile)
	return true
}
