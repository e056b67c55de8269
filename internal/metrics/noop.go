package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncCategoryCreated is a no-op.
func (n *NoopRecorder) IncCategoryCreated() {}

// IncCategoryDeleted is a no-op.
func (n *NoopRecorder) IncCategoryDeleted() {}

// IncItemInserted is a no-op.
func (n *NoopRecorder) IncItemInserted(kind string) {}

// IncItemDeleted is a no-op.
func (n *NoopRecorder) IncItemDeleted() {}

// IncItemUpdated is a no-op.
func (n *NoopRecorder) IncItemUpdated() {}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLoginResult is a no-op.
func (n *NoopRecorder) IncLoginResult(status string) {}

// IncClockEvent is a no-op.
func (n *NoopRecorder) IncClockEvent() {}

// ObservePersistDuration is a no-op.
func (n *NoopRecorder) ObservePersistDuration(duration time.Duration) {}

// IncBackup is a no-op.
func (n *NoopRecorder) IncBackup(status string) {}

// SetBackupQueueDepth is a no-op.
func (n *NoopRecorder) SetBackupQueueDepth(depth int64) {}
