package store

import (
	"context"

	"github.com/labstock/labstock/internal/model"
)

// AppendTimeLog inserts one clock record. The log is append-only; no
// deduplication or time-format validation happens here.
func (s *Store) AppendTimeLog(ctx context.Context, entry model.TimeLogEntry) (model.TimeLogEntry, error) {
	err := s.update(ctx, func(st *state) error {
		st.timeLogSeq++
		entry.ID = st.timeLogSeq
		st.timeLog = append(st.timeLog, entry)
		return nil
	})
	if err != nil {
		return model.TimeLogEntry{}, err
	}
	s.metrics.IncClockEvent()
	return entry, nil
}

// TimeLogForUser returns the user's records in insertion order.
func (s *Store) TimeLogForUser(ctx context.Context, user string) []model.TimeLogEntry {
	var out []model.TimeLogEntry
	s.view(func(st *state) {
		for _, e := range st.timeLog {
			if e.User == user {
				out = append(out, e)
			}
		}
	})
	return out
}
