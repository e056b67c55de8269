package backup

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/labstock/labstock/internal/ident"
	"github.com/labstock/labstock/internal/metrics"
)

const (
	// DefaultInterval is the periodic push cadence, used even when no
	// mutation happened, matching the legacy hourly backup job.
	DefaultInterval = time.Hour

	// DefaultLatestKey is the object key that always holds the newest copy.
	DefaultLatestKey = "labstock.db"
)

// Source provides the bytes to back up and signals when they changed.
// *store.Store satisfies this.
type Source interface {
	BackupEvents() <-chan struct{}
	BackupBytes(ctx context.Context) ([]byte, error)
}

// Worker pushes the durable representation to the sink after each mutation
// and on a periodic tick. Failures are logged and retried with backoff;
// they never reach the caller whose mutation triggered the push.
type Worker struct {
	source      Source
	sink        Sink
	logger      *slog.Logger
	metrics     metrics.Recorder
	interval    time.Duration
	latestKey   string
	keepHistory bool
	maxAttempts int

	// delay is swappable so retry tests don't sleep.
	delay func(attempt int) time.Duration
}

// Option configures a Worker.
type Option func(*Worker)

// WithInterval overrides the periodic push cadence.
func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithLatestKey overrides the fixed object key.
func WithLatestKey(key string) Option {
	return func(w *Worker) {
		if key != "" {
			w.latestKey = key
		}
	}
}

// WithHistory also stores a timestamped copy on every push.
func WithHistory(enabled bool) Option {
	return func(w *Worker) { w.keepHistory = enabled }
}

// NewWorker creates a backup worker.
func NewWorker(source Source, sink Sink, logger *slog.Logger, recorder metrics.Recorder, opts ...Option) *Worker {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	w := &Worker{
		source:      source,
		sink:        sink,
		logger:      logger.With("component", "backup.worker", "sink", sink.Name()),
		metrics:     recorder,
		interval:    DefaultInterval,
		latestKey:   DefaultLatestKey,
		maxAttempts: DefaultMaxAttempts,
		delay:       NextRetryDelay,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run pushes on change notifications and on the periodic tick. Blocks until
// the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("backup worker started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("backup worker stopping")
			return ctx.Err()
		case <-w.source.BackupEvents():
			w.push(ctx)
			w.metrics.SetBackupQueueDepth(int64(len(w.source.BackupEvents())))
		case <-ticker.C:
			w.push(ctx)
		}
	}
}

// PushNow performs one push cycle, used by Run and by the shutdown hook.
// The returned error is informational; callers must not fail on it.
func (w *Worker) PushNow(ctx context.Context) error {
	return w.pushOnce(ctx)
}

// push runs one cycle and swallows the outcome: by the time the worker
// observes a failure the mutation has long succeeded.
func (w *Worker) push(ctx context.Context) {
	if err := w.pushOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		w.logger.Error("backup push abandoned", "error", err)
	}
}

func (w *Worker) pushOnce(ctx context.Context) error {
	data, err := w.source.BackupBytes(ctx)
	if err != nil {
		w.metrics.IncBackup("failure")
		return err
	}

	for attempt := 0; ; attempt++ {
		err = w.sink.Put(ctx, w.latestKey, data)
		if err == nil {
			break
		}
		w.logger.Warn("backup push failed",
			"attempt", attempt+1,
			"error", err,
		)
		if IsExhausted(attempt+1, w.maxAttempts) {
			w.metrics.IncBackup("failure")
			return err
		}
		if err := sleep(ctx, w.delay(attempt)); err != nil {
			w.metrics.IncBackup("failure")
			return err
		}
	}

	if w.keepHistory {
		key := ident.BackupKey(time.Now()) + ".db"
		if err := w.sink.Put(ctx, key, data); err != nil {
			// History copies are bonus redundancy; the latest key succeeded.
			w.logger.Warn("history copy failed", "key", key, "error", err)
		}
	}

	w.metrics.IncBackup("success")
	w.logger.Debug("backup pushed", "bytes", len(data))
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
