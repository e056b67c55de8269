package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// MemoryMirror keeps the "durable" snapshot in process memory only. It is
// the mirror-mode-off configuration: useful for tests and throwaway
// environments, worthless across restarts.
type MemoryMirror struct {
	snap Snapshot
}

// NewMemoryMirror returns an empty volatile mirror.
func NewMemoryMirror() *MemoryMirror {
	return &MemoryMirror{}
}

func (m *MemoryMirror) Load(ctx context.Context) (Snapshot, error) {
	return m.snap, nil
}

func (m *MemoryMirror) Persist(ctx context.Context, snap Snapshot) error {
	m.snap = snap
	return nil
}

func (m *MemoryMirror) Bytes(ctx context.Context) ([]byte, error) {
	data, err := json.Marshal(m.snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func (m *MemoryMirror) Close() error { return nil }
