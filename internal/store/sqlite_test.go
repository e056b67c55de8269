package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/labstock/labstock/internal/metrics"
	"github.com/labstock/labstock/internal/model"
)

func TestSQLiteMirror_RestartReproducesRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "labstock.db")

	mirror, err := NewSQLiteMirror(path)
	if err != nil {
		t.Fatalf("open mirror: %v", err)
	}
	s, err := Open(ctx, mirror, testLogger(), metrics.NewNoop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if err := s.CreateCategory(ctx, "Freezer", model.KindStock); err != nil {
		t.Fatalf("create category: %v", err)
	}
	inserted, err := s.InsertStock(ctx, "freezer", StockDraft{Item: "taq", Notes: "-20C", Quantity: 12}, "lia")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.CreateUser(ctx, model.UserAccount{ID: "u1", Username: "lia", Email: "l@x.com", PasswordHash: "h"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := s.AppendTimeLog(ctx, model.TimeLogEntry{User: "lia", Date: "2025-03-01", ClockIn: "08:00"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Simulated process restart: a fresh store loads the durable file.
	mirror2, err := NewSQLiteMirror(path)
	if err != nil {
		t.Fatalf("reopen mirror: %v", err)
	}
	s2, err := Open(ctx, mirror2, testLogger(), metrics.NewNoop())
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() { _ = s2.Close() }()

	kind, stock, _, err := s2.Items(ctx, "freezer")
	if err != nil {
		t.Fatalf("items after restart: %v", err)
	}
	if kind != model.KindStock || len(stock) != 1 {
		t.Fatalf("expected 1 stock row, got kind=%s rows=%d", kind, len(stock))
	}
	got := stock[0]
	if got.ID != inserted.ID || got.Item != "taq" || got.Notes != "-20C" || got.Quantity != 12 || got.ModifiedBy != "lia" {
		t.Errorf("row differs after restart: %+v vs %+v", got, inserted)
	}
	if !got.ModifiedAt.Equal(inserted.ModifiedAt) {
		t.Errorf("modified_at changed across restart: %v vs %v", got.ModifiedAt, inserted.ModifiedAt)
	}

	if _, err := s2.UserByUsername(ctx, "lia"); err != nil {
		t.Errorf("expected user to survive restart, got %v", err)
	}
	if entries := s2.TimeLogForUser(ctx, "lia"); len(entries) != 1 {
		t.Errorf("expected 1 time-log entry, got %d", len(entries))
	}

	// New ids continue after the restored counters.
	e, err := s2.AppendTimeLog(ctx, model.TimeLogEntry{User: "lia", Date: "2025-03-02", ClockIn: "08:05"})
	if err != nil {
		t.Fatalf("append after restart: %v", err)
	}
	if e.ID != 2 {
		t.Errorf("expected seq to resume at 2, got %d", e.ID)
	}
}

func TestSQLiteMirror_EmptyFileStartsEmpty(t *testing.T) {
	ctx := context.Background()
	mirror, err := NewSQLiteMirror(filepath.Join(t.TempDir(), "fresh.db"))
	if err != nil {
		t.Fatalf("open mirror: %v", err)
	}
	defer func() { _ = mirror.Close() }()

	snap, err := mirror.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Inventory) != 0 || len(snap.Users) != 0 || len(snap.TimeLog.Entries) != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}

func TestSQLiteMirror_Bytes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "b.db")
	mirror, err := NewSQLiteMirror(path)
	if err != nil {
		t.Fatalf("open mirror: %v", err)
	}
	defer func() { _ = mirror.Close() }()

	if err := mirror.Persist(ctx, Snapshot{Users: []model.UserAccount{{ID: "1", Username: "a", Email: "a@x"}}}); err != nil {
		t.Fatalf("persist: %v", err)
	}
	data, err := mirror.Bytes(ctx)
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty durable bytes")
	}
}

func TestSQLiteMirror_FullReplaceDropsRemovedRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "replace.db")
	mirror, err := NewSQLiteMirror(path)
	if err != nil {
		t.Fatalf("open mirror: %v", err)
	}

	two := Snapshot{Users: []model.UserAccount{
		{ID: "1", Username: "a", Email: "a@x"},
		{ID: "2", Username: "b", Email: "b@x"},
	}}
	if err := mirror.Persist(ctx, two); err != nil {
		t.Fatalf("persist: %v", err)
	}
	one := Snapshot{Users: two.Users[:1]}
	if err := mirror.Persist(ctx, one); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if err := mirror.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLiteMirror(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	snap, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Users) != 1 || snap.Users[0].Username != "a" {
		t.Errorf("expected full replace semantics, got %+v", snap.Users)
	}
}

func TestMemoryMirror_Bytes(t *testing.T) {
	mirror := NewMemoryMirror()
	if err := mirror.Persist(context.Background(), Snapshot{}); err != nil {
		t.Fatalf("persist: %v", err)
	}
	data, err := mirror.Bytes(context.Background())
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected JSON bytes")
	}
}

func TestOpen_PropagatesLoadError(t *testing.T) {
	_, err := Open(context.Background(), &loadFailMirror{}, testLogger(), nil)
	if err == nil {
		t.Fatal("expected load error to surface")
	}
}

type loadFailMirror struct{ MemoryMirror }

func (m *loadFailMirror) Load(ctx context.Context) (Snapshot, error) {
	return Snapshot{}, errors.New("corrupt file")
}
