package traits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/townlife/internal/ecs"
	"github.com/talgya/townlife/internal/stats"
)

func testWorld(t *testing.T) (*ecs.World, *Library) {
	t.Helper()

	library := NewLibrary()
	library.Register(&Trait{
		Name: "gregarious",
		Effects: []StatEffect{
			{Stat: "sociability", Modifier: stats.Modifier{Value: 20, Kind: stats.Flat}},
		},
		Conflicts: []string{"recluse"},
	})
	library.Register(&Trait{
		Name: "recluse",
		Effects: []StatEffect{
			{Stat: "sociability", Modifier: stats.Modifier{Value: -25, Kind: stats.Flat}},
		},
		Conflicts: []string{"gregarious"},
	})
	library.Register(&Trait{Name: "kind"})

	w := ecs.NewWorld()
	w.Resources().Add(library)
	return w, library
}

func spawnCharacter(w *ecs.World) *ecs.GameObject {
	tracker := stats.NewStats()
	sociability := stats.NewBounded(50, 0, 100)
	tracker.Add("sociability", &sociability)
	return w.Spawn("alice", tracker, NewTraits())
}

func TestAdd_AppliesStatEffects(t *testing.T) {
	w, _ := testWorld(t)
	g := spawnCharacter(w)

	added, err := Add(g, "gregarious")
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, HasTrait(g, "gregarious"))

	tracker, err := ecs.Get[*stats.Stats](g)
	require.NoError(t, err)
	sociability, ok := tracker.Get("sociability")
	require.True(t, ok)
	assert.Equal(t, 70.0, sociability.Value())
}

func TestAdd_HeldTraitIsNoOp(t *testing.T) {
	w, _ := testWorld(t)
	g := spawnCharacter(w)

	added, err := Add(g, "gregarious")
	require.NoError(t, err)
	require.True(t, added)

	added, err = Add(g, "gregarious")
	require.NoError(t, err)
	assert.False(t, added)

	tracker, _ := ecs.Get[*stats.Stats](g)
	sociability, _ := tracker.Get("sociability")
	assert.Equal(t, 70.0, sociability.Value(), "effects must not double-apply")
}

func TestAdd_ConflictingTraitIsRejected(t *testing.T) {
	w, _ := testWorld(t)
	g := spawnCharacter(w)

	_, err := Add(g, "gregarious")
	require.NoError(t, err)

	added, err := Add(g, "recluse")
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, HasTrait(g, "recluse"))
}

func TestAdd_UnknownTraitIsError(t *testing.T) {
	w, _ := testWorld(t)
	g := spawnCharacter(w)

	_, err := Add(g, "nonexistent")
	assert.Error(t, err)
}

func TestRemove_StripsAllContributedModifiers(t *testing.T) {
	w, _ := testWorld(t)
	g := spawnCharacter(w)

	_, err := Add(g, "gregarious")
	require.NoError(t, err)

	removed, err := Remove(g, "gregarious")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, HasTrait(g, "gregarious"))

	tracker, _ := ecs.Get[*stats.Stats](g)
	sociability, _ := tracker.Get("sociability")
	assert.Equal(t, 50.0, sociability.Value())
}

func TestRemove_AbsentTraitIsNoOp(t *testing.T) {
	w, _ := testWorld(t)
	g := spawnCharacter(w)

	removed, err := Remove(g, "kind")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestAddRemove_DispatchEvents(t *testing.T) {
	w, _ := testWorld(t)
	g := spawnCharacter(w)

	var kinds []string
	listener := func(w *ecs.World, e ecs.Event) {
		kinds = append(kinds, e.Kind)
		assert.Equal(t, g.UID(), e.Data["entity"])
	}
	w.Events().Subscribe(EventTraitAdded, listener)
	w.Events().Subscribe(EventTraitRemoved, listener)

	_, err := Add(g, "kind")
	require.NoError(t, err)
	_, err = Remove(g, "kind")
	require.NoError(t, err)

	assert.Equal(t, []string{EventTraitAdded, EventTraitRemoved}, kinds)
}

func TestLibrary_NamesKeepRegistrationOrder(t *testing.T) {
	_, library := testWorld(t)
	assert.Equal(t, []string{"gregarious", "recluse", "kind"}, library.Names())

	// Re-registering keeps the original position.
	library.Register(&Trait{Name: "recluse"})
	assert.Equal(t, []string{"gregarious", "recluse", "kind"}, library.Names())
}
