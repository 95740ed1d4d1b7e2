package memory

import (
	"context"
	"sync"

	"github.com/mamadbah2/partsdash/internal/domain/models"
)

// SnapshotStore keeps the most recent snapshots in process memory. It backs
// the snapshot archive when MongoDB is not configured.
type SnapshotStore struct {
	snapshots []models.Snapshot
	capacity  int
	mu        sync.RWMutex
}

// NewSnapshotStore creates a store retaining at most capacity snapshots.
func NewSnapshotStore(capacity int) *SnapshotStore {
	if capacity <= 0 {
		capacity = 30
	}
	return &SnapshotStore{capacity: capacity}
}

// SaveSnapshot appends a snapshot, evicting the oldest one when full.
func (s *SnapshotStore) SaveSnapshot(_ context.Context, snapshot models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snapshot)
	if over := len(s.snapshots) - s.capacity; over > 0 {
		s.snapshots = append([]models.Snapshot(nil), s.snapshots[over:]...)
	}
	return nil
}

// LatestSnapshots returns up to limit snapshots, newest first.
func (s *SnapshotStore) LatestSnapshots(_ context.Context, limit int64) ([]models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Snapshot, 0, len(s.snapshots))
	for i := len(s.snapshots) - 1; i >= 0; i-- {
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
		out = append(out, s.snapshots[i])
	}
	return out, nil
}
