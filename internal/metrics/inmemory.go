package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	CategoriesCreated uint64
	CategoriesDeleted uint64
	ItemsInserted     map[string]uint64
	ItemsDeleted      uint64
	ItemsUpdated      uint64
	UsersRegistered   uint64
	LoginResults      map[string]uint64
	ClockEvents       uint64
	PersistCount      uint64
	PersistTotalNs    int64
	BackupResults     map[string]uint64
	BackupQueueDepth  int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	categoriesCreated uint64
	categoriesDeleted uint64
	itemsDeleted      uint64
	itemsUpdated      uint64
	usersRegistered   uint64
	clockEvents       uint64
	persistCount      uint64
	persistTotalNs    int64
	backupQueueDepth  int64

	mu            sync.Mutex
	itemsInserted map[string]uint64
	loginResults  map[string]uint64
	backupResults map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		itemsInserted: make(map[string]uint64),
		loginResults:  make(map[string]uint64),
		backupResults: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	inserted := make(map[string]uint64, len(m.itemsInserted))
	for k, v := range m.itemsInserted {
		inserted[k] = v
	}
	logins := make(map[string]uint64, len(m.loginResults))
	for k, v := range m.loginResults {
		logins[k] = v
	}
	backups := make(map[string]uint64, len(m.backupResults))
	for k, v := range m.backupResults {
		backups[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		CategoriesCreated: atomic.LoadUint64(&m.categoriesCreated),
		CategoriesDeleted: atomic.LoadUint64(&m.categoriesDeleted),
		ItemsInserted:     inserted,
		ItemsDeleted:      atomic.LoadUint64(&m.itemsDeleted),
		ItemsUpdated:      atomic.LoadUint64(&m.itemsUpdated),
		UsersRegistered:   atomic.LoadUint64(&m.usersRegistered),
		LoginResults:      logins,
		ClockEvents:       atomic.LoadUint64(&m.clockEvents),
		PersistCount:      atomic.LoadUint64(&m.persistCount),
		PersistTotalNs:    atomic.LoadInt64(&m.persistTotalNs),
		BackupResults:     backups,
		BackupQueueDepth:  atomic.LoadInt64(&m.backupQueueDepth),
	}
}

// IncCategoryCreated increments the category created counter.
func (m *InMemoryRecorder) IncCategoryCreated() {
	atomic.AddUint64(&m.categoriesCreated, 1)
}

// IncCategoryDeleted increments the category deleted counter.
func (m *InMemoryRecorder) IncCategoryDeleted() {
	atomic.AddUint64(&m.categoriesDeleted, 1)
}

// IncItemInserted increments the per-kind insert counter.
func (m *InMemoryRecorder) IncItemInserted(kind string) {
	m.mu.Lock()
	m.itemsInserted[kind]++
	m.mu.Unlock()
}

// IncItemDeleted increments the item deleted counter.
func (m *InMemoryRecorder) IncItemDeleted() {
	atomic.AddUint64(&m.itemsDeleted, 1)
}

// IncItemUpdated increments the item updated counter.
func (m *InMemoryRecorder) IncItemUpdated() {
	atomic.AddUint64(&m.itemsUpdated, 1)
}

// IncUserRegistered increments the user registered counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLoginResult increments the per-status login counter.
func (m *InMemoryRecorder) IncLoginResult(status string) {
	m.mu.Lock()
	m.loginResults[status]++
	m.mu.Unlock()
}

// IncClockEvent increments the clock event counter.
func (m *InMemoryRecorder) IncClockEvent() {
	atomic.AddUint64(&m.clockEvents, 1)
}

// ObservePersistDuration records one full-snapshot persist.
func (m *InMemoryRecorder) ObservePersistDuration(duration time.Duration) {
	atomic.AddUint64(&m.persistCount, 1)
	atomic.AddInt64(&m.persistTotalNs, duration.Nanoseconds())
}

// IncBackup increments the per-status backup counter.
func (m *InMemoryRecorder) IncBackup(status string) {
	m.mu.Lock()
	m.backupResults[status]++
	m.mu.Unlock()
}

// SetBackupQueueDepth records the backup queue depth gauge.
func (m *InMemoryRecorder) SetBackupQueueDepth(depth int64) {
	atomic.StoreInt64(&m.backupQueueDepth, depth)
}
