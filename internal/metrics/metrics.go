// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Category registry metrics
	IncCategoryCreated()
	IncCategoryDeleted()

	// Inventory metrics
	IncItemInserted(kind string) // kind: "stock" or "antibody"
	IncItemDeleted()
	IncItemUpdated()

	// User metrics
	IncUserRegistered()
	IncLoginResult(status string) // status: "success" or "failure"

	// Time-log metrics
	IncClockEvent()

	// Persistence and backup metrics
	ObservePersistDuration(duration time.Duration)
	IncBackup(status string) // status: "success" or "failure"
	SetBackupQueueDepth(depth int64)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
