package model

// TimeLogEntry is one clock-in/clock-out record. The log is append-only:
// entries are never updated or deleted. ClockOut is empty for an open shift.
type TimeLogEntry struct {
	ID       int64  `json:"id"`
	User     string `json:"user"`
	Date     string `json:"date"`
	ClockIn  string `json:"clock_in"`
	ClockOut string `json:"clock_out,omitempty"`
}

// TimeLogColumns is the CSV export header for time-log exports.
var TimeLogColumns = []string{"Date", "Clock-In", "Clock-Out"}
