package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/erazemk/gripcheck/internal/model"
	"github.com/erazemk/gripcheck/internal/notify"
)

// Action is a batch operation over selected equipment.
type Action string

// Actions. A single-item staged check-out uses ActionCheckOut as well.
const (
	ActionCheckOut    Action = "check-out"
	ActionCheckIn     Action = "check-in"
	ActionMaintenance Action = "maintenance"
	ActionLost        Action = "lost"
	ActionDamaged     Action = "damaged"
)

var (
	// ErrNothingPending is returned when confirming with no staged action.
	ErrNothingPending = errors.New("no action pending")
	// ErrStaleAction is returned when the confirmed id isn't the pending one.
	ErrStaleAction = errors.New("staged action is no longer pending")
	// ErrUnknownAction is returned for a bulk action outside the known set.
	ErrUnknownAction = errors.New("unknown bulk action")
	// ErrNoTargets is returned when staging with no equipment selected.
	ErrNoTargets = errors.New("no equipment selected")
)

// ParseAction accepts the hyphenated, squashed or underscored form of an
// action name ("check-out", "checkout", "CHECK_OUT").
func ParseAction(s string) (Action, error) {
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "checkout":
		return ActionCheckOut, nil
	case "checkin":
		return ActionCheckIn, nil
	case "maintenance":
		return ActionMaintenance, nil
	case "lost":
		return ActionLost, nil
	case "damaged":
		return ActionDamaged, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// StagedAction is an operation waiting for explicit confirmation.
type StagedAction struct {
	ID       string    `json:"id"`
	Action   Action    `json:"action"`
	Targets  []string  `json:"targets"`
	Bulk     bool      `json:"bulk"`
	StagedAt time.Time `json:"staged_at"`
}

// NeedsCustodian reports whether confirming requires a custodian.
func (s StagedAction) NeedsCustodian() bool {
	return s.Action == ActionCheckOut
}

// Outcome reports what a confirmed action changed.
type Outcome struct {
	Action  Action            `json:"action"`
	Changed []model.Equipment `json:"changed"`
	Skipped int               `json:"skipped"`
}

// ToggleResult is the result of the one-tap status toggle. Exactly one of
// the fields is set.
type ToggleResult struct {
	Staged    *StagedAction    `json:"staged,omitempty"`
	Equipment *model.Equipment `json:"equipment,omitempty"`
}

// ToggleStatus stages a check-out for Available equipment and returns
// anything else to base. ok is false for an unknown id.
func (e *Engine) ToggleStatus(ctx context.Context, id string) (ToggleResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item := e.repo.Get(id)
	if item == nil {
		return ToggleResult{}, false
	}

	if item.Status == model.StatusAvailable {
		staged := e.stage(ActionCheckOut, []string{id}, false)
		return ToggleResult{Staged: &staged}, true
	}
	return ToggleResult{Equipment: e.checkIn(ctx, id, ActorSystemBase, "")}, true
}

// StageBulk stages action over ids, replacing whatever was pending. Nothing
// is changed until Confirm.
func (e *Engine) StageBulk(ids []string, action Action) (StagedAction, error) {
	switch action {
	case ActionCheckOut, ActionCheckIn, ActionMaintenance, ActionLost, ActionDamaged:
	default:
		return StagedAction{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	targets := dedupe(ids)
	if len(targets) == 0 {
		return StagedAction{}, ErrNoTargets
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.stage(action, targets, true), nil
}

// stage must be called with mu held.
func (e *Engine) stage(action Action, targets []string, bulk bool) StagedAction {
	staged := StagedAction{
		ID:       e.newID(),
		Action:   action,
		Targets:  targets,
		Bulk:     bulk,
		StagedAt: e.now(),
	}
	e.pending = &staged
	return cloneStaged(staged)
}

// Pending returns the staged action, or nil.
func (e *Engine) Pending() *StagedAction {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return nil
	}
	s := cloneStaged(*e.pending)
	return &s
}

// Cancel discards the staged action without touching any equipment. It
// reports whether something was pending.
func (e *Engine) Cancel() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	had := e.pending != nil
	e.pending = nil
	return had
}

// Confirm commits the staged action identified by stageID. Check-outs need
// a custodian. A bulk check-out only touches equipment that is Available
// at commit time; every other action applies to all targets. The pending
// action is kept when confirmation fails.
func (e *Engine) Confirm(ctx context.Context, stageID string, c *Custodian) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return Outcome{}, ErrNothingPending
	}
	if stageID != e.pending.ID {
		return Outcome{}, ErrStaleAction
	}
	staged := *e.pending
	if staged.NeedsCustodian() && (c == nil || !c.valid()) {
		return Outcome{}, ErrCustodianRequired
	}
	e.pending = nil

	changed := e.repo.UpdateMany(ctx, staged.Targets, func(it *model.Equipment) bool {
		switch staged.Action {
		case ActionCheckOut:
			if it.Status != model.StatusAvailable {
				return false
			}
			e.checkOut(it, *c, "")
		case ActionCheckIn:
			e.returnToBase(it, ActorBulk, "")
		case ActionMaintenance:
			e.setStatus(it, model.StatusMaintenance, model.TxMaintenance, ActorBulk, TxExtra{})
		case ActionLost:
			e.setStatus(it, model.StatusLost, model.TxStatusChange, ActorBulk, TxExtra{Notes: NoteMarkedLost})
		case ActionDamaged:
			e.setStatus(it, model.StatusDamaged, model.TxDamageReport, ActorBulk, TxExtra{})
		}
		return true
	})
	if changed == nil {
		changed = []model.Equipment{}
	}

	out := Outcome{
		Action:  staged.Action,
		Changed: changed,
		Skipped: len(staged.Targets) - len(changed),
	}
	e.announce(staged, out, c)
	return out, nil
}

func (e *Engine) announce(staged StagedAction, out Outcome, c *Custodian) {
	slog.Info("staged action confirmed", "action", staged.Action, "bulk", staged.Bulk, "changed", len(out.Changed), "skipped", out.Skipped)

	switch {
	case !staged.Bulk && len(out.Changed) == 1:
		e.notifier.Notify(fmt.Sprintf("%s assigned to %s", out.Changed[0].Name, c.Name), notify.Success)
	case !staged.Bulk:
		e.notifier.Notify("Equipment is no longer available", notify.Error)
	case staged.Action == ActionCheckOut:
		e.notifier.Notify(fmt.Sprintf("Bulk Assignment Complete: %d units to %s", len(out.Changed), c.Name), notify.Success)
	default:
		e.notifier.Notify(fmt.Sprintf("Bulk %s complete for %d units", staged.Action, len(out.Changed)), notify.Success)
	}
}

func cloneStaged(s StagedAction) StagedAction {
	s.Targets = append([]string(nil), s.Targets...)
	return s
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
