package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteMirror persists snapshots to a single SQLite table as JSON blobs,
// one row per bucket. The whole payload of each bucket is replaced on every
// persist.
type SQLiteMirror struct {
	db   *sql.DB
	path string
}

// NewSQLiteMirror opens (or creates) the durable file at path.
func NewSQLiteMirror(path string) (*SQLiteMirror, error) {
	if path == "" {
		path = "labstock.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &SQLiteMirror{db: db, path: path}, nil
}

// Path returns the durable file's location.
func (m *SQLiteMirror) Path() string { return m.path }

func (m *SQLiteMirror) Load(ctx context.Context) (Snapshot, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snap Snapshot
	for rows.Next() {
		var (
			bucket  string
			payload []byte
		)
		if err := rows.Scan(&bucket, &payload); err != nil {
			return Snapshot{}, fmt.Errorf("scan state: %w", err)
		}
		if err := decodeBucket(&snap, bucket, payload); err != nil {
			return Snapshot{}, err
		}
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("iterate state: %w", err)
	}
	return snap, nil
}

func (m *SQLiteMirror) Persist(ctx context.Context, snap Snapshot) (retErr error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, bucket := range snapshotBuckets {
		data, err := encodeBucket(snap, bucket)
		if err != nil {
			retErr = err
			return retErr
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`,
			bucket, data); err != nil {
			retErr = fmt.Errorf("upsert %s: %w", bucket, err)
			return retErr
		}
	}
	return tx.Commit()
}

// Bytes returns the SQLite file contents. Callers serialize against
// Persist, so the file is never read mid-write.
func (m *SQLiteMirror) Bytes(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, fmt.Errorf("read durable file: %w", err)
	}
	return data, nil
}

func (m *SQLiteMirror) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *SQLiteMirror) Close() error {
	return m.db.Close()
}

func encodeBucket(snap Snapshot, bucket string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch bucket {
	case bucketInventory:
		data, err = json.Marshal(snap.Inventory)
	case bucketUsers:
		data, err = json.Marshal(snap.Users)
	case bucketTimeLog:
		data, err = json.Marshal(snap.TimeLog)
	default:
		return nil, fmt.Errorf("unknown bucket %q", bucket)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", bucket, err)
	}
	return data, nil
}

func decodeBucket(snap *Snapshot, bucket string, payload []byte) error {
	var err error
	switch bucket {
	case bucketInventory:
		err = json.Unmarshal(payload, &snap.Inventory)
	case bucketUsers:
		err = json.Unmarshal(payload, &snap.Users)
	case bucketTimeLog:
		err = json.Unmarshal(payload, &snap.TimeLog)
	default:
		// Unknown buckets are skipped so older binaries can open newer files.
		return nil
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", bucket, err)
	}
	return nil
}
