package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/erazemk/gripcheck/internal/crew"
	"github.com/erazemk/gripcheck/internal/inventory"
	"github.com/erazemk/gripcheck/internal/model"
)

// Actor is recorded on transactions the assistant performs without a named
// crew member.
const Actor = "GripBot"

// DefaultPosition is used when a check-out names someone who isn't on the
// crew roster.
const DefaultPosition = "Crew"

// Result reports the outcome of one action.
type Result struct {
	Action    string             `json:"action"`
	OK        bool               `json:"ok"`
	Message   string             `json:"message"`
	Equipment *model.Equipment   `json:"equipment,omitempty"`
	Summary   *inventory.Summary `json:"summary,omitempty"`
}

// Response is the payload returned to the model as the function response.
func (r Result) Response() map[string]any {
	if !r.OK {
		return map[string]any{"error": r.Message}
	}
	out := map[string]any{"result": "ok, action performed"}
	if r.Summary != nil {
		out["summary"] = r.Message
	}
	return out
}

// Dispatcher runs assistant actions against the inventory.
type Dispatcher struct {
	engine *inventory.Engine
	crew   *crew.Directory
}

// NewDispatcher returns a dispatcher. roster may be nil, in which case
// every custodian gets DefaultPosition.
func NewDispatcher(engine *inventory.Engine, roster *crew.Directory) *Dispatcher {
	return &Dispatcher{engine: engine, crew: roster}
}

// Dispatch parses and runs a named action. Failures are logged and
// reported in the result.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) Result {
	act, err := ParseAction(name, args)
	if err != nil {
		slog.Warn("rejected assistant action", "action", name, "error", err)
		return Result{Action: name, Message: err.Error()}
	}
	return d.Execute(ctx, act)
}

// Execute runs a parsed action.
func (d *Dispatcher) Execute(ctx context.Context, act Action) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("assistant action panicked", "action", act.Name(), "panic", r)
			res = Result{Action: act.Name(), Message: "internal error"}
		}
	}()

	switch a := act.(type) {
	case CheckOutGear:
		res = d.checkOut(ctx, a)
	case CheckInGear:
		res = d.checkIn(ctx, a)
	case ReportDamage:
		res = d.reportDamage(ctx, a)
	case GetInventorySummary:
		res = d.summary(a)
	default:
		res = Result{Action: act.Name(), Message: ErrUnknownAction.Error()}
	}

	if res.OK {
		slog.Info("assistant action performed", "action", res.Action, "message", res.Message)
	} else {
		slog.Warn("assistant action failed", "action", res.Action, "message", res.Message)
	}
	return res
}

func (d *Dispatcher) resolve(action, serial string) (*model.Equipment, *Result) {
	item := d.engine.FindBySerial(serial)
	if item == nil {
		return nil, &Result{Action: action, Message: fmt.Sprintf("no equipment with serial %s", serial)}
	}
	return item, nil
}

func (d *Dispatcher) checkOut(ctx context.Context, a CheckOutGear) Result {
	item, fail := d.resolve(a.Name(), a.SerialNumber)
	if fail != nil {
		return *fail
	}

	c := inventory.Custodian{Name: a.UserName, Position: DefaultPosition}
	if d.crew != nil {
		if m := d.crew.FindByName(a.UserName); m != nil {
			c = inventory.Custodian{Name: m.Name, Position: m.Position}
		}
	}

	updated, ok, err := d.engine.CheckOut(ctx, item.ID, c, a.Project)
	switch {
	case err != nil:
		return Result{Action: a.Name(), Message: err.Error()}
	case updated == nil:
		return Result{Action: a.Name(), Message: fmt.Sprintf("no equipment with serial %s", a.SerialNumber)}
	case !ok:
		return Result{Action: a.Name(), Equipment: updated, Message: fmt.Sprintf("%s is %s, not available", updated.Name, updated.Status)}
	}
	return Result{Action: a.Name(), OK: true, Equipment: updated, Message: fmt.Sprintf("%s checked out to %s", updated.Name, updated.CurrentHolder)}
}

func (d *Dispatcher) checkIn(ctx context.Context, a CheckInGear) Result {
	item, fail := d.resolve(a.Name(), a.SerialNumber)
	if fail != nil {
		return *fail
	}
	updated := d.engine.CheckIn(ctx, item.ID, Actor, a.Notes)
	if updated == nil {
		return Result{Action: a.Name(), Message: fmt.Sprintf("no equipment with serial %s", a.SerialNumber)}
	}
	return Result{Action: a.Name(), OK: true, Equipment: updated, Message: fmt.Sprintf("%s returned to base", updated.Name)}
}

func (d *Dispatcher) reportDamage(ctx context.Context, a ReportDamage) Result {
	item, fail := d.resolve(a.Name(), a.SerialNumber)
	if fail != nil {
		return *fail
	}
	updated := d.engine.ReportDamage(ctx, item.ID, Actor, a.Description)
	if updated == nil {
		return Result{Action: a.Name(), Message: fmt.Sprintf("no equipment with serial %s", a.SerialNumber)}
	}
	return Result{Action: a.Name(), OK: true, Equipment: updated, Message: fmt.Sprintf("%s flagged as damaged", updated.Name)}
}

func (d *Dispatcher) summary(a GetInventorySummary) Result {
	s := d.engine.Summary(a.Category, a.Project)
	return Result{Action: a.Name(), OK: true, Summary: &s, Message: describeSummary(s)}
}

func describeSummary(s inventory.Summary) string {
	scope := "all gear"
	switch {
	case s.Category != "" && s.Project != "":
		scope = fmt.Sprintf("%s on project %s", s.Category, s.Project)
	case s.Category != "":
		scope = s.Category
	case s.Project != "":
		scope = "project " + s.Project
	}
	if s.Total == 0 {
		return fmt.Sprintf("No items for %s.", scope)
	}

	statuses := make([]string, 0, len(s.ByStatus))
	for status := range s.ByStatus {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)

	parts := make([]string, 0, len(statuses))
	for _, status := range statuses {
		parts = append(parts, fmt.Sprintf("%d %s", s.ByStatus[model.Status(status)], status))
	}
	return fmt.Sprintf("%d items for %s: %s.", s.Total, scope, strings.Join(parts, ", "))
}
