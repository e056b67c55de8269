package store

import (
	"sort"
	"strings"

	"github.com/labstock/labstock/internal/model"
)

// Snapshot is the full durable representation of the store. Every mutation
// replaces the previous durable contents with a fresh snapshot; there is no
// incremental journal.
type Snapshot struct {
	Inventory []CategoryData      `json:"inventory"`
	Users     []model.UserAccount `json:"users"`
	TimeLog   TimeLogData         `json:"time_log"`
}

// CategoryData bundles a registry entry with the rows of its relation.
type CategoryData struct {
	Category model.Category       `json:"category"`
	Stock    []model.StockItem    `json:"stock,omitempty"`
	Antibody []model.AntibodyItem `json:"antibody,omitempty"`
	// AntibodySeq is the last auto-increment id handed out for this category.
	AntibodySeq int64 `json:"antibody_seq,omitempty"`
}

// TimeLogData bundles the append-only log with its id counter.
type TimeLogData struct {
	Entries []model.TimeLogEntry `json:"entries"`
	Seq     int64                `json:"seq"`
}

// Bucket names in the durable state table. One bucket per managed relation
// group, mirroring the legacy one-file-per-concern layout.
const (
	bucketInventory = "inventory"
	bucketUsers     = "users"
	bucketTimeLog   = "timelog"
)

var snapshotBuckets = []string{bucketInventory, bucketUsers, bucketTimeLog}

// snapshot builds a deterministic Snapshot from the hot state.
func (st *state) snapshot() Snapshot {
	snap := Snapshot{
		Users: append([]model.UserAccount(nil), st.users...),
		TimeLog: TimeLogData{
			Entries: append([]model.TimeLogEntry(nil), st.timeLog...),
			Seq:     st.timeLogSeq,
		},
	}
	keys := make([]string, 0, len(st.categories))
	for k := range st.categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		c := st.categories[k]
		snap.Inventory = append(snap.Inventory, CategoryData{
			Category:    c.info,
			Stock:       append([]model.StockItem(nil), c.stock...),
			Antibody:    append([]model.AntibodyItem(nil), c.antibody...),
			AntibodySeq: c.antibodySeq,
		})
	}
	return snap
}

// stateFromSnapshot rebuilds the hot state from a durable snapshot.
func stateFromSnapshot(snap Snapshot) *state {
	st := newState()
	for _, data := range snap.Inventory {
		st.categories[strings.ToLower(data.Category.Name)] = &categoryState{
			info:        data.Category,
			stock:       append([]model.StockItem(nil), data.Stock...),
			antibody:    append([]model.AntibodyItem(nil), data.Antibody...),
			antibodySeq: data.AntibodySeq,
		}
	}
	st.users = append(st.users, snap.Users...)
	st.timeLog = append(st.timeLog, snap.TimeLog.Entries...)
	st.timeLogSeq = snap.TimeLog.Seq
	return st
}
