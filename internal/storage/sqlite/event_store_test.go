package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helix-robotics/graspcore/internal/timeutil"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "grasp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenAppliesMigrations(t *testing.T) {
	db := openTestDB(t)

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)

	// Reopening an already-migrated database is a no-op.
	require.NoError(t, db.MigrateUp())
}

func TestInsertFillsIDAndTimestamp(t *testing.T) {
	db := openTestDB(t)
	store := NewEventStore(db.DB)

	ev := &GraspEvent{
		EpisodeID: "ep-1",
		Event:     EventGrasp,
		Mode:      "proximity",
		Target:    "entity/3",
		Distance:  0.12,
	}
	require.NoError(t, store.Insert(ev))
	assert.NotEmpty(t, ev.EventID)
	assert.NotZero(t, ev.CreatedAt)
}

func TestInsertStampsWithInjectedClock(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewEventStoreWithClock(db.DB, timeutil.NewMockClock(now))

	ev := &GraspEvent{
		EpisodeID: "ep-1",
		Event:     EventGrasp,
		Mode:      "gaze",
		Target:    "entity/1",
	}
	require.NoError(t, store.Insert(ev))
	assert.Equal(t, now.UnixNano(), ev.CreatedAt)
}

func TestListByEpisodeOrdersByTime(t *testing.T) {
	db := openTestDB(t)
	store := NewEventStore(db.DB)

	require.NoError(t, store.Insert(&GraspEvent{
		EpisodeID: "ep-1", Event: EventGrasp, Mode: "suction",
		Target: "entity/3", Distance: 0.02, CreatedAt: 100,
	}))
	require.NoError(t, store.Insert(&GraspEvent{
		EpisodeID: "ep-1", Event: EventRelease,
		Target: "entity/3", CreatedAt: 200,
	}))
	require.NoError(t, store.Insert(&GraspEvent{
		EpisodeID: "ep-2", Event: EventGrasp, Mode: "gaze",
		Target: "marker/handle_left", Distance: 0.5, CreatedAt: 50,
	}))

	events, err := store.ListByEpisode("ep-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EventGrasp, events[0].Event)
	assert.Equal(t, EventRelease, events[1].Event)
	assert.Equal(t, "entity/3", events[0].Target)

	missing, err := store.ListByEpisode("ep-none")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestEpisodeIDsNewestFirst(t *testing.T) {
	db := openTestDB(t)
	store := NewEventStore(db.DB)

	require.NoError(t, store.Insert(&GraspEvent{
		EpisodeID: "ep-old", Event: EventGrasp, Mode: "proximity",
		Target: "entity/1", CreatedAt: 100,
	}))
	require.NoError(t, store.Insert(&GraspEvent{
		EpisodeID: "ep-new", Event: EventGrasp, Mode: "proximity",
		Target: "entity/2", CreatedAt: 300,
	}))

	ids, err := store.EpisodeIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"ep-new", "ep-old"}, ids)
}

func TestSummarizeByModeCountsGraspsOnly(t *testing.T) {
	db := openTestDB(t)
	store := NewEventStore(db.DB)

	for _, ev := range []*GraspEvent{
		{EpisodeID: "ep-1", Event: EventGrasp, Mode: "proximity", Target: "entity/1", Distance: 0.1, CreatedAt: 1},
		{EpisodeID: "ep-1", Event: EventGrasp, Mode: "proximity", Target: "entity/2", Distance: 0.3, CreatedAt: 2},
		{EpisodeID: "ep-1", Event: EventGrasp, Mode: "gaze", Target: "entity/3", Distance: 1.0, CreatedAt: 3},
		{EpisodeID: "ep-1", Event: EventRelease, Target: "entity/1", CreatedAt: 4},
	} {
		require.NoError(t, store.Insert(ev))
	}

	summary, err := store.SummarizeByMode()
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "gaze", summary[0].Mode)
	assert.Equal(t, 1, summary[0].Grasps)
	assert.Equal(t, "proximity", summary[1].Mode)
	assert.Equal(t, 2, summary[1].Grasps)
	assert.InDelta(t, 0.2, summary[1].AvgDistance, 1e-9)

	dists, err := store.GraspDistances("proximity")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.3}, dists)
}
