// Package store defines the persistence contract for machine state
// snapshots. Backends live in the subpackages memory, mongo, and postgres.
package store

import (
	"context"
	"time"

	"github.com/vendolabs/vendo/id"
	"github.com/vendolabs/vendo/inventory"
)

// RegisterState is the persisted portion of the cash register. The
// transaction log is deliberately not part of a snapshot.
type RegisterState struct {
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
}

// Snapshot is a serialized copy of the full machine state, the unit of
// backup and restore.
type Snapshot struct {
	ID            id.SnapshotID    `json:"id"`
	Denominations []int            `json:"denominations"`
	Currency      string           `json:"currency"`
	Items         []inventory.Item `json:"items"`
	Register      RegisterState    `json:"cash_register"`
	Stamp         time.Time        `json:"stamp"`
}

// Store durably persists machine snapshots. Implementations must be safe
// for concurrent use; the machine calls them outside its state lock.
type Store interface {
	// SaveSnapshot durably stores one snapshot.
	SaveSnapshot(ctx context.Context, snap *Snapshot) error

	// LoadLatest returns the most recently stamped snapshot, or
	// vendo.ErrNoSnapshot when none has been saved yet.
	LoadLatest(ctx context.Context) (*Snapshot, error)

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
