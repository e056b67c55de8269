package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/labstock/labstock/internal/store"
)

func newTestTimeLog(t *testing.T) *TimeLogService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.Open(context.Background(), store.NewMemoryMirror(), logger, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewTimeLogService(st)
}

func TestClockValidation(t *testing.T) {
	svc := newTestTimeLog(t)
	ctx := context.Background()

	cases := []struct{ user, date, in string }{
		{"", "2024-01-02", "09:00"},
		{"alice", "", "09:00"},
		{"alice", "2024-01-02", ""},
	}
	for _, tc := range cases {
		if _, err := svc.Clock(ctx, tc.user, tc.date, tc.in, ""); !store.IsValidation(err) {
			t.Errorf("Clock(%q,%q,%q) = %v, want validation error", tc.user, tc.date, tc.in, err)
		}
	}
}

func TestClockOpenShiftAllowed(t *testing.T) {
	svc := newTestTimeLog(t)
	entry, err := svc.Clock(context.Background(), "alice", "2024-01-02", "09:00", "")
	if err != nil {
		t.Fatalf("Clock: %v", err)
	}
	if entry.ClockOut != "" {
		t.Errorf("ClockOut = %q, want empty for open shift", entry.ClockOut)
	}
	if entry.ID == 0 {
		t.Error("expected assigned entry id")
	}
}

func TestExportTimeLogCSV(t *testing.T) {
	svc := newTestTimeLog(t)
	ctx := context.Background()
	if _, err := svc.Clock(ctx, "alice", "2024-01-02", "09:00", "17:00"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Clock(ctx, "bob", "2024-01-02", "10:00", "18:00"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Clock(ctx, "alice", "2024-01-03", "09:30", ""); err != nil {
		t.Fatal(err)
	}

	export, err := svc.ExportCSV(ctx, "alice")
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if export.Filename != "ponto_alice.csv" {
		t.Errorf("Filename = %q, want ponto_alice.csv", export.Filename)
	}
	lines := strings.Split(strings.TrimRight(string(export.Data), "\n"), "\n")
	want := []string{
		"Date,Clock-In,Clock-Out",
		"2024-01-02,09:00,17:00",
		"2024-01-03,09:30,",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(lines), lines, len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
