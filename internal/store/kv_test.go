package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/erazemk/gripcheck/internal/db"
	"github.com/erazemk/gripcheck/internal/model"
)

type failingKV struct{}

func (failingKV) Get(context.Context, string) ([]byte, error) { return nil, errors.New("disk on fire") }
func (failingKV) Put(context.Context, string, []byte) error    { return errors.New("disk on fire") }

func TestSQLiteKVGetMissing(t *testing.T) {
	kv := &SQLiteKV{DB: db.NewTestDB(t)}

	got, err := kv.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing key, got %q", got)
	}
}

func TestSQLiteKVOverwrite(t *testing.T) {
	kv := &SQLiteKV{DB: db.NewTestDB(t)}
	ctx := context.Background()

	if err := kv.Put(ctx, "k", []byte("one")); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	if err := kv.Put(ctx, "k", []byte("two")); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	got, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("expected 'two', got %q", got)
	}
}

func TestLoadMalformedFallsBackToSeed(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	kv.Put(ctx, KeyInventory, []byte("{not json"))

	got := Load(ctx, kv, KeyInventory, SeedInventory)
	if !reflect.DeepEqual(got, SeedInventory()) {
		t.Error("expected seed inventory for malformed document")
	}
}

func TestLoadNullDocumentFallsBackToSeed(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	kv.Put(ctx, KeyInventory, []byte("null"))
	kv.Put(ctx, KeyCrew, []byte(" null\n"))

	repo := NewEquipmentRepo(ctx, kv)
	if got, want := len(repo.List()), len(SeedInventory()); got != want {
		t.Errorf("expected %d seed items, got %d", want, got)
	}

	crew := NewCrewRepo(ctx, kv)
	if got, want := len(crew.List()), len(SeedCrew()); got != want {
		t.Errorf("expected %d seed members, got %d", want, got)
	}
}

func TestInvalidEquipmentFlagsUnknownEnums(t *testing.T) {
	items := SeedInventory()
	items[1].Status = "Bogus"
	items[3].Category = "Nope"

	bad := invalidEquipment(items)
	if len(bad) != 2 {
		t.Fatalf("expected 2 invalid items, got %d", len(bad))
	}
	if bad[0].ID != items[1].ID || bad[1].ID != items[3].ID {
		t.Errorf("expected ids %s and %s, got %s and %s", items[1].ID, items[3].ID, bad[0].ID, bad[1].ID)
	}
	if len(invalidEquipment(SeedInventory())) != 0 {
		t.Error("expected seed inventory to be valid")
	}
}

func TestLoadWrongShapeFallsBackToSeed(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	kv.Put(ctx, KeyInventory, []byte(`{"id": "1"}`))

	got := Load(ctx, kv, KeyInventory, SeedInventory)
	if len(got) != len(SeedInventory()) {
		t.Errorf("expected %d seed items, got %d", len(SeedInventory()), len(got))
	}
}

func TestLoadBackendErrorFallsBack(t *testing.T) {
	got := Load(context.Background(), failingKV{}, KeyCrew, SeedCrew)
	if len(got) != 2 {
		t.Errorf("expected seed crew, got %d members", len(got))
	}
}

func TestSaveReportsBackendError(t *testing.T) {
	if err := Save(context.Background(), failingKV{}, KeyCrew, SeedCrew()); err == nil {
		t.Error("expected error from failing backend")
	}
}

func TestInventoryRoundTrip(t *testing.T) {
	kv := &SQLiteKV{DB: db.NewTestDB(t)}
	ctx := context.Background()

	items := SeedInventory()
	items[0].Status = model.StatusLost
	items[0].CurrentHolder = "Jane"
	items[0].CurrentProject = "Night Shoot"

	if err := Save(ctx, kv, KeyInventory, items); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := Load(ctx, kv, KeyInventory, func() []model.Equipment { return nil })
	if !reflect.DeepEqual(got, items) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, items)
	}
}

func TestMemoryKVCopiesValues(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	buf := []byte("abc")
	kv.Put(ctx, "k", buf)
	buf[0] = 'x'

	got, _ := kv.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("expected stored value to be independent of caller buffer, got %q", got)
	}
}
