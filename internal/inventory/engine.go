// Package inventory implements the equipment lifecycle: status
// transitions, custody, staged check-outs and bulk actions, and the
// filtered view of the cart.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/gripcheck/internal/imaging"
	"github.com/erazemk/gripcheck/internal/model"
	"github.com/erazemk/gripcheck/internal/notify"
	"github.com/erazemk/gripcheck/internal/store"
)

// Actors recorded on transactions that no crew member performed.
const (
	ActorSystemBase = "System Base"
	ActorBulk       = "Bulk Action"
	ActorAdmin      = "Admin"
)

// NoteMarkedLost is attached to every transition into Lost.
const NoteMarkedLost = "Marked as Lost"

var (
	// ErrCustodianRequired is returned when a check-out has no name or position.
	ErrCustodianRequired = errors.New("custodian name and position required")
	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errors.New("invalid status")
)

// Custodian is the person taking equipment off the cart.
type Custodian struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

func (c Custodian) valid() bool {
	return strings.TrimSpace(c.Name) != "" && strings.TrimSpace(c.Position) != ""
}

// TxExtra carries optional transaction fields.
type TxExtra struct {
	Notes   string
	Project string
}

// Engine applies lifecycle operations to the equipment repository.
// Operations run one at a time.
type Engine struct {
	mu       sync.Mutex
	repo     *store.EquipmentRepo
	notifier notify.Notifier
	pending  *StagedAction

	now   func() time.Time
	newID func() string
}

// New returns an engine over repo that reports outcomes to notifier.
func New(repo *store.EquipmentRepo, notifier notify.Notifier) *Engine {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Engine{
		repo:     repo,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// List returns the full collection.
func (e *Engine) List() []model.Equipment {
	return e.repo.List()
}

// Get returns the equipment with the given id, or nil.
func (e *Engine) Get(id string) *model.Equipment {
	return e.repo.Get(id)
}

// FindBySerial returns the equipment with the given serial, or nil.
func (e *Engine) FindBySerial(serial string) *model.Equipment {
	return e.repo.FindBySerial(serial)
}

// RecordTransaction builds a transaction for item and prepends it to the
// item's history.
func (e *Engine) RecordTransaction(item *model.Equipment, typ model.TransactionType, actor, position string, extra TxExtra) model.Transaction {
	tx := model.Transaction{
		ID:           e.newID(),
		EquipmentID:  item.ID,
		Type:         typ,
		Timestamp:    e.now(),
		User:         actor,
		UserPosition: position,
		Notes:        extra.Notes,
		Project:      extra.Project,
	}
	item.Prepend(tx)
	return tx
}

func (e *Engine) stamp(item *model.Equipment) {
	t := e.now()
	item.LastChecked = &t
}

// checkOut must be called with mu held.
func (e *Engine) checkOut(item *model.Equipment, c Custodian, project string) {
	item.Status = model.StatusCheckedOut
	item.CurrentHolder = strings.TrimSpace(c.Name)
	item.CurrentHolderPosition = strings.TrimSpace(c.Position)
	if project != "" {
		item.CurrentProject = project
	}
	e.stamp(item)
	e.RecordTransaction(item, model.TxCheckOut, item.CurrentHolder, item.CurrentHolderPosition, TxExtra{Project: project})
}

func (e *Engine) returnToBase(item *model.Equipment, actor, notes string) {
	item.Status = model.StatusAvailable
	item.ClearCustody()
	e.stamp(item)
	e.RecordTransaction(item, model.TxCheckIn, actor, "", TxExtra{Notes: notes})
}

// setStatus moves item into status, clearing custody unless the new status
// keeps a holder.
func (e *Engine) setStatus(item *model.Equipment, status model.Status, typ model.TransactionType, actor string, extra TxExtra) {
	item.Status = status
	if !status.RetainsHolder() {
		item.ClearCustody()
	}
	e.stamp(item)
	e.RecordTransaction(item, typ, actor, "", extra)
}

// CheckOut assigns the equipment to c. Equipment that isn't Available is
// left as is and returned with ok set to false. A nil equipment means the
// id is unknown.
func (e *Engine) CheckOut(ctx context.Context, id string, c Custodian, project string) (item *model.Equipment, ok bool, err error) {
	if !c.valid() {
		return nil, false, ErrCustodianRequired
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.repo.Get(id)
	if current == nil {
		return nil, false, nil
	}
	if current.Status != model.StatusAvailable {
		return current, false, nil
	}

	updated := e.repo.Update(ctx, id, func(it *model.Equipment) {
		e.checkOut(it, c, project)
	})
	slog.Info("equipment checked out", "serial", updated.SerialNumber, "holder", updated.CurrentHolder)
	e.notifier.Notify(fmt.Sprintf("%s assigned to %s", updated.Name, updated.CurrentHolder), notify.Success)
	return updated, true, nil
}

// CheckIn returns the equipment to base on behalf of actor. It returns nil
// when the id is unknown.
func (e *Engine) CheckIn(ctx context.Context, id, actor, notes string) *model.Equipment {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.checkIn(ctx, id, actor, notes)
}

func (e *Engine) checkIn(ctx context.Context, id, actor, notes string) *model.Equipment {
	updated := e.repo.Update(ctx, id, func(it *model.Equipment) {
		e.returnToBase(it, actor, notes)
	})
	if updated == nil {
		return nil
	}
	slog.Info("equipment returned to base", "serial", updated.SerialNumber, "actor", actor)
	e.notifier.Notify(fmt.Sprintf("%s Returned to Base", updated.Name), notify.Success)
	return updated
}

// ReportDamage marks the equipment Damaged with description as the
// transaction note. It returns nil when the id is unknown.
func (e *Engine) ReportDamage(ctx context.Context, id, actor, description string) *model.Equipment {
	e.mu.Lock()
	defer e.mu.Unlock()

	updated := e.repo.Update(ctx, id, func(it *model.Equipment) {
		e.setStatus(it, model.StatusDamaged, model.TxDamageReport, actor, TxExtra{Notes: description})
	})
	if updated == nil {
		return nil
	}
	slog.Info("damage reported", "serial", updated.SerialNumber, "actor", actor)
	e.notifier.Notify(fmt.Sprintf("%s marked as %s", updated.Name, model.StatusDamaged), notify.Error)
	return updated
}

// QuickStatusUpdate applies an administrative status change. Checked Out
// can't be reached this way because it needs a custodian. Recovering a
// Lost item back to Available records a recovered transaction.
func (e *Engine) QuickStatusUpdate(ctx context.Context, id string, status model.Status) (*model.Equipment, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if status == model.StatusCheckedOut {
		return nil, ErrCustodianRequired
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	updated := e.repo.Update(ctx, id, func(it *model.Equipment) {
		typ := model.TxStatusChange
		var extra TxExtra
		switch {
		case status == model.StatusDamaged:
			typ = model.TxDamageReport
		case status == model.StatusLost:
			extra.Notes = NoteMarkedLost
		case status == model.StatusAvailable && it.Status == model.StatusLost:
			typ = model.TxRecovered
		}
		e.setStatus(it, status, typ, ActorAdmin, extra)
	})
	if updated == nil {
		return nil, nil
	}

	slog.Info("equipment status changed", "serial", updated.SerialNumber, "status", status)
	severity := notify.Info
	if status == model.StatusDamaged {
		severity = notify.Error
	}
	e.notifier.Notify(fmt.Sprintf("%s marked as %s", updated.Name, status), severity)
	return updated, nil
}

// AssignProject attaches the equipment to a project without changing its
// status.
func (e *Engine) AssignProject(ctx context.Context, id, project, actor string) *model.Equipment {
	e.mu.Lock()
	defer e.mu.Unlock()

	project = strings.TrimSpace(project)
	updated := e.repo.Update(ctx, id, func(it *model.Equipment) {
		it.CurrentProject = project
		e.RecordTransaction(it, model.TxProjectAssign, actor, "", TxExtra{Project: project})
	})
	if updated == nil {
		return nil
	}
	slog.Info("equipment assigned to project", "serial", updated.SerialNumber, "project", project)
	e.notifier.Notify(fmt.Sprintf("%s assigned to project %s", updated.Name, project), notify.Info)
	return updated
}

// NewEquipment describes gear being added to the cart.
type NewEquipment struct {
	Name         string         `json:"name" validate:"notblank"`
	SerialNumber string         `json:"serial_number" validate:"notblank"`
	Category     model.Category `json:"category" validate:"category"`
	SubCategory  string         `json:"sub_category"`
	Status       model.Status   `json:"status"`
	Notes        string         `json:"notes"`
	ImageURL     string         `json:"image_url"`
	Location     string         `json:"location"`
}

// Add puts new equipment at the front of the cart. Status defaults to
// Available and a missing image gets the serial's placeholder.
func (e *Engine) Add(ctx context.Context, in NewEquipment) (*model.Equipment, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.SerialNumber) == "" {
		return nil, errors.New("name and serial number required")
	}
	if !in.Category.Valid() {
		return nil, fmt.Errorf("unknown category %q", in.Category)
	}
	if in.Status == "" {
		in.Status = model.StatusAvailable
	}
	if !in.Status.Valid() || in.Status == model.StatusCheckedOut {
		return nil, ErrInvalidStatus
	}

	item := model.Equipment{
		ID:           e.newID(),
		Name:         strings.TrimSpace(in.Name),
		SerialNumber: strings.TrimSpace(in.SerialNumber),
		Category:     in.Category,
		SubCategory:  in.SubCategory,
		Status:       in.Status,
		Notes:        in.Notes,
		ImageURL:     in.ImageURL,
		Location:     in.Location,
		History:      []model.Transaction{},
	}
	if item.ImageURL == "" {
		item.ImageURL = imaging.PlaceholderURL(item.SerialNumber)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.repo.Prepend(ctx, item)
	slog.Info("equipment added", "serial", item.SerialNumber, "name", item.Name)
	e.notifier.Notify(fmt.Sprintf("%s added to inventory", item.Name), notify.Success)
	return &item, nil
}

// UpdateNotes replaces the free-text notes. No transaction is recorded.
func (e *Engine) UpdateNotes(ctx context.Context, id, notes string) *model.Equipment {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.repo.Update(ctx, id, func(it *model.Equipment) {
		it.Notes = notes
	})
}

// UpdateImage replaces the reference image. An empty url restores the
// placeholder.
func (e *Engine) UpdateImage(ctx context.Context, id, url string) *model.Equipment {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.repo.Update(ctx, id, func(it *model.Equipment) {
		if url == "" {
			url = imaging.PlaceholderURL(it.SerialNumber)
		}
		it.ImageURL = url
	})
}

// History returns the equipment's history, newest first, optionally
// restricted to one transaction type. ok is false for an unknown id.
func (e *Engine) History(id string, typ model.TransactionType) (history []model.Transaction, ok bool) {
	item := e.repo.Get(id)
	if item == nil {
		return nil, false
	}
	if typ == "" {
		return item.History, true
	}
	out := []model.Transaction{}
	for _, tx := range item.History {
		if tx.Type == typ {
			out = append(out, tx)
		}
	}
	return out, true
}
