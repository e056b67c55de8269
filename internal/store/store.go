// Package store implements the memory-primary inventory, user and time-log
// store with its durable mirror.
//
// All reads and writes target the in-memory state while the process runs.
// After every successful mutation the entire state is copied over the durable
// mirror's previous contents (full replace, not incremental), and a backup
// notification is emitted for the best-effort external sink. The mirror is
// the recovery source on process start.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/labstock/labstock/internal/metrics"
	"github.com/labstock/labstock/internal/model"
)

// Mirror is the durable secondary representation of the store.
type Mirror interface {
	// Load returns the last persisted snapshot, or a zero snapshot when the
	// durable representation does not exist yet.
	Load(ctx context.Context) (Snapshot, error)
	// Persist replaces the durable contents with the given snapshot.
	Persist(ctx context.Context, snap Snapshot) error
	// Bytes returns the durable representation's raw bytes for backup.
	Bytes(ctx context.Context) ([]byte, error)
	Close() error
}

type categoryState struct {
	info        model.Category
	stock       []model.StockItem
	antibody    []model.AntibodyItem
	antibodySeq int64
}

type state struct {
	// categories is keyed by the lower-cased name; info.Name keeps the
	// original casing for display and exports.
	categories map[string]*categoryState
	users      []model.UserAccount
	timeLog    []model.TimeLogEntry
	timeLogSeq int64
}

func newState() *state {
	return &state{categories: make(map[string]*categoryState)}
}

func (st *state) clone() *state {
	next := &state{
		categories: make(map[string]*categoryState, len(st.categories)),
		users:      append([]model.UserAccount(nil), st.users...),
		timeLog:    append([]model.TimeLogEntry(nil), st.timeLog...),
		timeLogSeq: st.timeLogSeq,
	}
	for k, c := range st.categories {
		next.categories[k] = &categoryState{
			info:        c.info,
			stock:       append([]model.StockItem(nil), c.stock...),
			antibody:    append([]model.AntibodyItem(nil), c.antibody...),
			antibodySeq: c.antibodySeq,
		}
	}
	return next
}

// Store owns the hot state and the durable mirror. A single mutex serializes
// writers; mutations run against a clone and are swapped in only after the
// mirror persists, so a failed write leaves neither representation changed.
type Store struct {
	mu      sync.Mutex
	st      *state
	mirror  Mirror
	logger  *slog.Logger
	metrics metrics.Recorder

	backupC chan struct{}

	// now is swappable for tests.
	now func() time.Time
}

// Open loads the durable snapshot into a fresh Store. A missing durable
// representation starts the store empty.
func Open(ctx context.Context, mirror Mirror, logger *slog.Logger, recorder metrics.Recorder) (*Store, error) {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	snap, err := mirror.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load durable state: %w", err)
	}
	return &Store{
		st:      stateFromSnapshot(snap),
		mirror:  mirror,
		logger:  logger.With("component", "store"),
		metrics: recorder,
		backupC: make(chan struct{}, 1),
		now:     time.Now,
	}, nil
}

// BackupEvents is signalled after every successful persist. The channel has
// capacity one: coalesced notifications are fine because the backup always
// pushes the latest full snapshot.
func (s *Store) BackupEvents() <-chan struct{} {
	return s.backupC
}

// BackupBytes returns the durable representation's bytes. It holds the store
// lock so a concurrent mutation cannot hand out a half-written mirror.
func (s *Store) BackupBytes(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mirror.Bytes(ctx)
}

// Ping reports whether the durable mirror is reachable. Mirrors without a
// connection to lose (memory) always report healthy.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.mirror.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases the durable mirror.
func (s *Store) Close() error {
	return s.mirror.Close()
}

// update runs fn against a clone of the hot state, persists the result to
// the mirror and swaps the clone in. fn must only return sentinel or
// validation errors for caller-visible failures.
func (s *Store) update(ctx context.Context, fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st.clone()
	if err := fn(next); err != nil {
		return err
	}

	start := s.now()
	if err := s.mirror.Persist(ctx, next.snapshot()); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	s.metrics.ObservePersistDuration(s.now().Sub(start))

	s.st = next
	select {
	case s.backupC <- struct{}{}:
	default:
	}
	s.metrics.SetBackupQueueDepth(int64(len(s.backupC)))
	return nil
}

// view runs fn with the lock held for consistent reads. fn must not retain
// references into the state after it returns.
func (s *Store) view(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.st)
}
