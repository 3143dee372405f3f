package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/townlife/internal/ecs"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_RunLifecycle(t *testing.T) {
	db := openTestDB(t)

	runID, err := db.CreateRun(42, "Testville")
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	require.NoError(t, db.FinishRun(runID, 24))

	count, err := db.EventCount(runID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDB_SaveAndReadEvents(t *testing.T) {
	db := openTestDB(t)
	runID, err := db.CreateRun(42, "Testville")
	require.NoError(t, err)

	events := []ecs.Event{
		{Kind: "socialized", Tick: 1, Data: map[string]any{"character": float64(3)}},
		{Kind: "month-elapsed", Tick: 1, Data: map[string]any{"date": "Month 2, Year 1"}},
		{Kind: "socialized", Tick: 2, Data: map[string]any{"character": float64(4)}},
	}
	require.NoError(t, db.SaveEvents(runID, events))

	count, err := db.EventCount(runID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	recent, err := db.RecentEvents(runID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	// Newest first.
	assert.Equal(t, "socialized", recent[0].Kind)
	assert.Equal(t, uint64(2), recent[0].Tick)
	assert.Equal(t, float64(4), recent[0].Data["character"])
	assert.Equal(t, "month-elapsed", recent[1].Kind)
}

func TestDB_SaveEvents_EmptyBatchIsNoOp(t *testing.T) {
	db := openTestDB(t)
	runID, err := db.CreateRun(42, "Testville")
	require.NoError(t, err)

	require.NoError(t, db.SaveEvents(runID, nil))
}

func TestDB_SaveCharacters_FullReplace(t *testing.T) {
	db := openTestDB(t)
	runID, err := db.CreateRun(42, "Testville")
	require.NoError(t, err)

	w := ecs.NewWorld()
	alice := w.Spawn("alice")
	bob := w.Spawn("bob")

	require.NoError(t, db.SaveCharacters(runID, []*ecs.GameObject{alice, bob}))
	require.NoError(t, db.SaveCharacters(runID, []*ecs.GameObject{alice}))

	var count int
	require.NoError(t, db.conn.Get(&count,
		"SELECT COUNT(*) FROM characters WHERE run_id = ?", runID))
	assert.Equal(t, 1, count)
}

func TestDB_RunsAreIsolated(t *testing.T) {
	db := openTestDB(t)

	run1, err := db.CreateRun(1, "A")
	require.NoError(t, err)
	run2, err := db.CreateRun(2, "B")
	require.NoError(t, err)
	require.NotEqual(t, run1, run2)

	require.NoError(t, db.SaveEvents(run1, []ecs.Event{{Kind: "x", Tick: 1, Data: map[string]any{}}}))

	count, err := db.EventCount(run2)
	require.NoError(t, err)
	assert.Zero(t, count)
}
