package notify

import (
	"testing"
	"time"
)

type recorder struct {
	messages []string
}

func (r *recorder) Notify(message string, _ Severity) {
	r.messages = append(r.messages, message)
}

func TestFeedKeepsOrder(t *testing.T) {
	feed := NewFeed(time.Minute)
	feed.Notify("first", Success)
	feed.Notify("second", Error)

	recent := feed.Recent()
	if len(recent) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(recent))
	}
	if recent[0].Message != "first" {
		t.Errorf("expected 'first', got %q", recent[0].Message)
	}
	if recent[1].Severity != Error {
		t.Errorf("expected error severity, got %s", recent[1].Severity)
	}
	if recent[0].ID >= recent[1].ID {
		t.Errorf("expected increasing ids, got %d then %d", recent[0].ID, recent[1].ID)
	}
}

func TestFeedAutoDismiss(t *testing.T) {
	feed := NewFeed(50 * time.Millisecond)
	feed.Notify("gone soon", Info)
	if n := len(feed.Recent()); n != 1 {
		t.Fatalf("expected 1 notification, got %d", n)
	}

	time.Sleep(120 * time.Millisecond)
	if n := len(feed.Recent()); n != 0 {
		t.Errorf("expected feed to be empty, got %d", n)
	}
}

func TestFeedDismiss(t *testing.T) {
	feed := NewFeed(time.Minute)
	feed.Notify("one", Info)
	id := feed.Recent()[0].ID

	feed.Dismiss(id)
	if n := len(feed.Recent()); n != 0 {
		t.Errorf("expected feed to be empty, got %d", n)
	}
}

func TestFanout(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Fanout{a, b, Discard{}, Log{}}.Notify("C-Stand Returned to Base", Success)

	if len(a.messages) != 1 || a.messages[0] != "C-Stand Returned to Base" {
		t.Errorf("unexpected messages: %v", a.messages)
	}
	if len(b.messages) != 1 || b.messages[0] != a.messages[0] {
		t.Errorf("expected both notifiers to see the message, got %v", b.messages)
	}
}
