package town

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/townlife/internal/ecs"
	"github.com/talgya/townlife/internal/relationship"
	"github.com/talgya/townlife/internal/rng"
	"github.com/talgya/townlife/internal/stats"
	"github.com/talgya/townlife/internal/traits"
)

func TestGenerate_BuildsHierarchy(t *testing.T) {
	w := ecs.NewWorld()
	settlement, err := Generate(w, GenConfig{Name: "Testville", Districts: 3, Population: 5}, rng.New(42))
	require.NoError(t, err)

	assert.Equal(t, "Testville", settlement.Name())
	require.Len(t, settlement.Children, 3)
	for _, district := range settlement.Children {
		d, err := ecs.Get[*District](district)
		require.NoError(t, err)
		assert.Same(t, settlement, district.Parent)
		assert.Greater(t, d.Desirability, 0.0)
	}

	characters := Characters(w)
	require.Len(t, characters, 5)
	for _, character := range characters {
		resident, err := ecs.Get[*Resident](character)
		require.NoError(t, err)
		assert.True(t, ecs.Has[*District](resident.District))
		assert.Same(t, resident.District, character.Parent)

		// Every character carries the trackers the social systems rely on.
		assert.True(t, ecs.Has[*stats.Stats](character))
		assert.True(t, ecs.Has[*traits.Traits](character))
		assert.True(t, ecs.Has[*relationship.Relationships](character))

		tracker, _ := ecs.Get[*stats.Stats](character)
		sociability, ok := tracker.Get("sociability")
		require.True(t, ok)
		assert.GreaterOrEqual(t, sociability.Value(), 20.0)
		assert.LessOrEqual(t, sociability.Value(), 80.0)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	build := func() ([]string, []float64) {
		w := ecs.NewWorld()
		settlement, err := Generate(w, GenConfig{Name: "Testville", Districts: 4, Population: 8}, rng.New(7))
		require.NoError(t, err)

		var names []string
		for _, character := range Characters(w) {
			names = append(names, character.Name())
		}
		var desirability []float64
		for _, district := range settlement.Children {
			d, _ := ecs.Get[*District](district)
			desirability = append(desirability, d.Desirability)
		}
		return names, desirability
	}

	names1, des1 := build()
	names2, des2 := build()
	assert.Equal(t, names1, names2)
	assert.Equal(t, des1, des2)
}

func TestGenerate_NeedsAtLeastOneDistrict(t *testing.T) {
	w := ecs.NewWorld()
	_, err := Generate(w, GenConfig{Name: "Testville", Districts: 0, Population: 1}, rng.New(1))
	assert.Error(t, err)
}

func TestCharacter_FullName(t *testing.T) {
	c := &Character{FirstName: "Ada", LastName: "Birch"}
	assert.Equal(t, "Ada Birch", c.FullName())
}
