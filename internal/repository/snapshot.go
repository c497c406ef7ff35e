package repository

import (
	"context"
	"errors"

	"fleet/internal/fleet"
)

// ErrNoSnapshot is returned by Load when nothing has been persisted yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// SnapshotStore persists the engine state as plain records. The store
// never mutates engine entities; it only moves snapshots in and out.
type SnapshotStore interface {
	// Save persists the snapshot, replacing any previous one.
	Save(ctx context.Context, snap fleet.Snapshot) error

	// Load retrieves the last persisted snapshot.
	Load(ctx context.Context) (fleet.Snapshot, error)
}
