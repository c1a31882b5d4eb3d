// Package notify carries short user-facing messages about completed
// operations. Notifications never feed back into inventory state.
package notify

import (
	"log/slog"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
)

// Severity styles a notification.
type Severity string

// Severities.
const (
	Success Severity = "success"
	Info    Severity = "info"
	Error   Severity = "error"
)

// Notifier receives user-facing messages.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Notification is one entry in the feed.
type Notification struct {
	ID       uint64    `json:"id"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	At       time.Time `json:"at"`
}

// DefaultDismissAfter is how long a notification stays in the feed.
const DefaultDismissAfter = 3 * time.Second

// Feed holds recent notifications until they auto-dismiss.
type Feed struct {
	entries *cache.Cache
	seq     atomic.Uint64
}

// NewFeed returns a feed whose entries expire after ttl.
func NewFeed(ttl time.Duration) *Feed {
	if ttl <= 0 {
		ttl = DefaultDismissAfter
	}
	return &Feed{entries: cache.New(ttl, 2*ttl)}
}

// Notify adds a notification to the feed.
func (f *Feed) Notify(message string, severity Severity) {
	n := Notification{
		ID:       f.seq.Add(1),
		Message:  message,
		Severity: severity,
		At:       time.Now().UTC(),
	}
	f.entries.SetDefault(strconv.FormatUint(n.ID, 10), n)
}

// Recent returns the notifications that haven't been dismissed yet,
// oldest first.
func (f *Feed) Recent() []Notification {
	items := f.entries.Items()
	out := make([]Notification, 0, len(items))
	for _, item := range items {
		if n, ok := item.Object.(Notification); ok {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Dismiss removes a notification before it expires.
func (f *Feed) Dismiss(id uint64) {
	f.entries.Delete(strconv.FormatUint(id, 10))
}

// Log writes notifications to the default slog logger.
type Log struct{}

func (Log) Notify(message string, severity Severity) {
	if severity == Error {
		slog.Warn("notification", "severity", severity, "message", message)
		return
	}
	slog.Info("notification", "severity", severity, "message", message)
}

// Fanout delivers each notification to every wrapped notifier.
type Fanout []Notifier

func (f Fanout) Notify(message string, severity Severity) {
	for _, n := range f {
		n.Notify(message, severity)
	}
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(string, Severity) {}
