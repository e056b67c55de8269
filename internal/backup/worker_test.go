package backup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/labstock/labstock/internal/metrics"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSource struct {
	events chan struct{}
	data   []byte
	err    error
}

func (f *fakeSource) BackupEvents() <-chan struct{} { return f.events }

func (f *fakeSource) BackupBytes(ctx context.Context) ([]byte, error) {
	return f.data, f.err
}

type recordingSink struct {
	mu       sync.Mutex
	puts     map[string][][]byte
	failures int // fail this many Puts before succeeding
}

func newRecordingSink(failures int) *recordingSink {
	return &recordingSink{puts: make(map[string][][]byte), failures: failures}
}

func (s *recordingSink) Put(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("remote unavailable")
	}
	s.puts[key] = append(s.puts[key], append([]byte(nil), data...))
	return nil
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.puts[key])
}

func newTestWorker(source Source, sink Sink, rec metrics.Recorder, opts ...Option) *Worker {
	w := NewWorker(source, sink, testLogger(), rec, opts...)
	w.delay = func(int) time.Duration { return 0 }
	return w
}

func TestPushNow_UploadsLatestKey(t *testing.T) {
	sink := newRecordingSink(0)
	source := &fakeSource{events: make(chan struct{}, 1), data: []byte("snapshot-bytes")}
	w := newTestWorker(source, sink, metrics.NewNoop())

	if err := w.PushNow(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sink.count(DefaultLatestKey) != 1 {
		t.Fatalf("expected 1 upload, got %d", sink.count(DefaultLatestKey))
	}
	sink.mu.Lock()
	got := string(sink.puts[DefaultLatestKey][0])
	sink.mu.Unlock()
	if got != "snapshot-bytes" {
		t.Errorf("uploaded bytes differ: %q", got)
	}
}

func TestPushNow_RetriesThenSucceeds(t *testing.T) {
	sink := newRecordingSink(2)
	source := &fakeSource{events: make(chan struct{}, 1), data: []byte("x")}
	rec := metrics.NewInMemory()
	w := newTestWorker(source, sink, rec)

	if err := w.PushNow(context.Background()); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if got := rec.Snapshot().BackupResults["success"]; got != 1 {
		t.Errorf("expected 1 success, got %d", got)
	}
}

func TestPushNow_BoundedRetry(t *testing.T) {
	sink := newRecordingSink(100)
	source := &fakeSource{events: make(chan struct{}, 1), data: []byte("x")}
	rec := metrics.NewInMemory()
	w := newTestWorker(source, sink, rec)

	if err := w.PushNow(context.Background()); err == nil {
		t.Fatal("expected exhausted retries to report an error")
	}
	if got := rec.Snapshot().BackupResults["failure"]; got != 1 {
		t.Errorf("expected 1 failure, got %d", got)
	}
	// Exactly maxAttempts Puts were tried.
	if sink.failures != 100-DefaultMaxAttempts {
		t.Errorf("expected %d attempts, %d failures left", DefaultMaxAttempts, sink.failures)
	}
}

func TestPushNow_History(t *testing.T) {
	sink := newRecordingSink(0)
	source := &fakeSource{events: make(chan struct{}, 1), data: []byte("x")}
	w := newTestWorker(source, sink, metrics.NewNoop(), WithHistory(true))

	if err := w.PushNow(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	sink.mu.Lock()
	keys := len(sink.puts)
	sink.mu.Unlock()
	if keys != 2 {
		t.Errorf("expected latest + history keys, got %d", keys)
	}
}

func TestRun_PushesOnChangeSignal(t *testing.T) {
	sink := newRecordingSink(0)
	source := &fakeSource{events: make(chan struct{}, 1), data: []byte("x")}
	w := newTestWorker(source, sink, metrics.NewNoop(), WithInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	source.events <- struct{}{}
	deadline := time.After(2 * time.Second)
	for sink.count(DefaultLatestKey) == 0 {
		select {
		case <-deadline:
			t.Fatal("worker never pushed after change signal")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestRun_SourceErrorIsNotFatal(t *testing.T) {
	sink := newRecordingSink(0)
	source := &fakeSource{events: make(chan struct{}, 1), err: errors.New("locked")}
	w := newTestWorker(source, sink, metrics.NewNoop(), WithInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	source.events <- struct{}{}
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on cancel")
	}
}

func TestNextRetryDelay_Bounds(t *testing.T) {
	for attempt := 0; attempt < 6; attempt++ {
		d := NextRetryDelay(attempt)
		if d <= 0 {
			t.Errorf("attempt %d: non-positive delay %v", attempt, d)
		}
		max := time.Duration(float64(retryDelays[len(retryDelays)-1]) * (1 + JitterFactor))
		if d > max {
			t.Errorf("attempt %d: delay %v over cap %v", attempt, d, max)
		}
	}
	if NextRetryDelay(-5) <= 0 {
		t.Error("negative attempt should clamp to first delay")
	}
}

func TestIsExhausted(t *testing.T) {
	if IsExhausted(2, 3) {
		t.Error("2 of 3 attempts is not exhausted")
	}
	if !IsExhausted(3, 3) {
		t.Error("3 of 3 attempts is exhausted")
	}
}
