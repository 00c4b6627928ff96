// Package memory provides an in-memory snapshot store, useful for tests
// and single-process deployments that don't need durability.
package memory

import (
	"context"
	"sync"

	vendo "github.com/vendolabs/vendo"
	"github.com/vendolabs/vendo/id"
	"github.com/vendolabs/vendo/inventory"
	vendostore "github.com/vendolabs/vendo/store"
)

// compile-time interface check
var _ vendostore.Store = (*Store)(nil)

// Store keeps every saved snapshot in memory, newest resolved by stamp.
type Store struct {
	mu        sync.RWMutex
	snapshots []vendostore.Snapshot
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{snapshots: make([]vendostore.Snapshot, 0)}
}

// SaveSnapshot appends a deep copy of the snapshot so later machine
// mutations can't reach into stored state.
func (s *Store) SaveSnapshot(_ context.Context, snap *vendostore.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = append(s.snapshots, copySnapshot(snap))
	return nil
}

// LoadLatest returns the snapshot with the most recent stamp.
func (s *Store) LoadLatest(_ context.Context) (*vendostore.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.snapshots) == 0 {
		return nil, vendo.ErrNoSnapshot
	}

	latest := &s.snapshots[0]
	for i := range s.snapshots[1:] {
		if s.snapshots[i+1].Stamp.After(latest.Stamp) {
			latest = &s.snapshots[i+1]
		}
	}

	out := copySnapshot(latest)
	return &out, nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }

func copySnapshot(snap *vendostore.Snapshot) vendostore.Snapshot {
	out := *snap
	if out.ID.IsNil() {
		out.ID = id.NewSnapshotID()
	}
	out.Denominations = append([]int(nil), snap.Denominations...)
	out.Items = append([]inventory.Item(nil), snap.Items...)
	return out
}
