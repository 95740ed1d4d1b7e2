package memory

import (
	"context"
	"testing"
	"time"

	"github.com/mamadbah2/partsdash/internal/domain/models"
)

func TestSnapshotStoreEvictsOldest(t *testing.T) {
	store := NewSnapshotStore(2)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := store.SaveSnapshot(ctx, models.Snapshot{TakenAt: base.AddDate(0, 0, i), TotalSKUs: i}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := store.LatestSnapshots(ctx, 10)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(got) != 2 || got[0].TotalSKUs != 2 || got[1].TotalSKUs != 1 {
		t.Fatalf("latest = %+v", got)
	}

	got, _ = store.LatestSnapshots(ctx, 1)
	if len(got) != 1 || got[0].TotalSKUs != 2 {
		t.Fatalf("limited = %+v", got)
	}
}
