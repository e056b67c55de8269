package service

import (
	"bytes"
	"context"
	"encoding/csv"

	"github.com/labstock/labstock/internal/model"
	"github.com/labstock/labstock/internal/store"
)

// TimeLogService records clock events and exports per-user timesheets.
type TimeLogService struct {
	store *store.Store
}

func NewTimeLogService(st *store.Store) *TimeLogService {
	return &TimeLogService{store: st}
}

// Clock appends a time-log entry for user. ClockOut may be empty for an
// open shift; the log is append-only and entries are never edited.
func (s *TimeLogService) Clock(ctx context.Context, user, date, clockIn, clockOut string) (model.TimeLogEntry, error) {
	if user == "" {
		return model.TimeLogEntry{}, store.ValidationError{Field: "user", Reason: "required"}
	}
	if date == "" {
		return model.TimeLogEntry{}, store.ValidationError{Field: "date", Reason: "required"}
	}
	if clockIn == "" {
		return model.TimeLogEntry{}, store.ValidationError{Field: "clock_in", Reason: "required"}
	}

	entry, err := s.store.AppendTimeLog(ctx, model.TimeLogEntry{
		User:     user,
		Date:     date,
		ClockIn:  clockIn,
		ClockOut: clockOut,
	})
	if err != nil {
		return model.TimeLogEntry{}, err
	}
	return entry, nil
}

// ForUser returns the user's entries in insertion order.
func (s *TimeLogService) ForUser(ctx context.Context, user string) []model.TimeLogEntry {
	return s.store.TimeLogForUser(ctx, user)
}

// ExportCSV renders a user's timesheet as CSV named ponto_{user}.csv,
// keeping the filename the legacy exports used.
func (s *TimeLogService) ExportCSV(ctx context.Context, user string) (Export, error) {
	if user == "" {
		return Export{}, store.ValidationError{Field: "user", Reason: "required"}
	}
	entries := s.store.TimeLogForUser(ctx, user)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(model.TimeLogColumns); err != nil {
		return Export{}, err
	}
	for _, e := range entries {
		if err := w.Write([]string{e.Date, e.ClockIn, e.ClockOut}); err != nil {
			return Export{}, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Export{}, err
	}
	return Export{Filename: "ponto_" + user + ".csv", Data: buf.Bytes()}, nil
}
