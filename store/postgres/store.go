// Package postgres implements the snapshot store on PostgreSQL. Snapshots
// are serialized to a JSONB column; the latest is resolved by stamp.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // postgres driver

	vendo "github.com/vendolabs/vendo"
	"github.com/vendolabs/vendo/id"
	vendostore "github.com/vendolabs/vendo/store"
)

// compile-time interface check
var _ vendostore.Store = (*Store)(nil)

// Store persists machine snapshots to a PostgreSQL table.
type Store struct {
	db *sql.DB
}

// New opens a connection pool for the given DSN.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("vendo/postgres: open: %w", err)
	}
	return &Store{db: db}, nil
}

// Migrate creates the snapshot table and its stamp index.
func (s *Store) Migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS machine_snapshots (
    id    TEXT PRIMARY KEY,
    stamp TIMESTAMPTZ NOT NULL,
    state JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS machine_snapshots_stamp_idx ON machine_snapshots (stamp DESC);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("vendo/postgres: migrate: %w", err)
	}
	return nil
}

// SaveSnapshot inserts one snapshot row.
func (s *Store) SaveSnapshot(ctx context.Context, snap *vendostore.Snapshot) error {
	stored := *snap
	if stored.ID.IsNil() {
		stored.ID = id.NewSnapshotID()
	}

	state, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("vendo/postgres: encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO machine_snapshots (id, stamp, state) VALUES ($1, $2, $3)",
		stored.ID.String(), stored.Stamp, state,
	)
	if err != nil {
		return fmt.Errorf("vendo/postgres: save snapshot: %w", err)
	}
	return nil
}

// LoadLatest returns the most recently stamped snapshot.
func (s *Store) LoadLatest(ctx context.Context) (*vendostore.Snapshot, error) {
	var state []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT state FROM machine_snapshots ORDER BY stamp DESC LIMIT 1",
	).Scan(&state)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vendo.ErrNoSnapshot
		}
		return nil, fmt.Errorf("vendo/postgres: load latest snapshot: %w", err)
	}

	var snap vendostore.Snapshot
	if err := json.Unmarshal(state, &snap); err != nil {
		return nil, fmt.Errorf("vendo/postgres: decode snapshot: %w", err)
	}
	return &snap, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
