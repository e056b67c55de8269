package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// PostgresMirror persists snapshots to a Postgres state table, sharing the
// bucket codec with the SQLite mirror. Meant for deployments where the
// durable copy should live off-host.
type PostgresMirror struct {
	db *sql.DB
	// last is the most recently loaded or persisted snapshot; Bytes serves
	// it as JSON since there is no single durable file to read.
	last Snapshot
}

// NewPostgresMirror connects using dsn and ensures the state table exists.
func NewPostgresMirror(ctx context.Context, dsn string) (*PostgresMirror, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure state table: %w", err)
	}
	return &PostgresMirror{db: db}, nil
}

func (m *PostgresMirror) Load(ctx context.Context) (Snapshot, error) {
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
	m.last = snap
	return snap, nil
}

func (m *PostgresMirror) Persist(ctx context.Context, snap Snapshot) (retErr error) {
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
			`INSERT INTO state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`,
			bucket, data); err != nil {
			retErr = fmt.Errorf("upsert %s: %w", bucket, err)
			return retErr
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	m.last = snap
	return nil
}

func (m *PostgresMirror) Bytes(ctx context.Context) ([]byte, error) {
	data, err := json.Marshal(m.last)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func (m *PostgresMirror) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *PostgresMirror) Close() error {
	return m.db.Close()
}
