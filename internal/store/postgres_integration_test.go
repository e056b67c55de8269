package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstock/labstock/internal/model"
	"github.com/labstock/labstock/internal/testutil"
)

// Requires a reachable Postgres; set TEST_DATABASE_URL to run.
func TestPostgresMirrorRoundTrip(t *testing.T) {
	dsn := testutil.RequireEnv(t, "TEST_DATABASE_URL")
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	unlock, err := testutil.AcquireDBLock(ctx, pool)
	if err != nil {
		t.Fatalf("advisory lock: %v", err)
	}
	defer unlock()

	if err := testutil.ResetStateTable(ctx, pool); err != nil {
		t.Fatalf("reset: %v", err)
	}

	mirror, err := NewPostgresMirror(ctx, dsn)
	if err != nil {
		t.Fatalf("open mirror: %v", err)
	}

	snap := Snapshot{
		Inventory: []CategoryData{
			{
				Category: model.Category{Name: "lab1", Kind: model.KindStock},
				Stock: []model.StockItem{
					{ID: "123456", Item: "tips", Quantity: 3, ModifiedAt: time.Now().UTC().Truncate(time.Second), ModifiedBy: "alice"},
				},
			},
		},
		Users: []model.UserAccount{
			{ID: "u1", Username: "alice", Email: "a@x.com", PasswordHash: "hash"},
		},
		TimeLog: TimeLogData{
			Entries: []model.TimeLogEntry{{ID: 1, User: "alice", Date: "2024-01-02", ClockIn: "09:00"}},
			Seq:     1,
		},
	}

	if err := mirror.Persist(ctx, snap); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if err := mirror.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// A second open simulates a process restart.
	reopened, err := NewPostgresMirror(ctx, dsn)
	if err != nil {
		t.Fatalf("reopen mirror: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Inventory) != 1 || loaded.Inventory[0].Category.Name != "lab1" {
		t.Fatalf("inventory = %+v, want category lab1", loaded.Inventory)
	}
	if len(loaded.Inventory[0].Stock) != 1 || loaded.Inventory[0].Stock[0].ID != "123456" {
		t.Errorf("stock = %+v, want the persisted row", loaded.Inventory[0].Stock)
	}
	if len(loaded.Users) != 1 || loaded.Users[0].Username != "alice" {
		t.Errorf("users = %+v, want alice", loaded.Users)
	}
	if loaded.TimeLog.Seq != 1 || len(loaded.TimeLog.Entries) != 1 {
		t.Errorf("timelog = %+v, want one entry with seq 1", loaded.TimeLog)
	}
}
