package sim

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/townlife/internal/ecs"
	"github.com/talgya/townlife/internal/simtime"
	"github.com/talgya/townlife/internal/town"
	"github.com/talgya/townlife/internal/traits"
)

func testConfig() Config {
	return Config{
		Seed:       42,
		Months:     6,
		TownName:   "Testville",
		Districts:  3,
		Population: 8,
	}
}

func TestNew_NothingSpawnedBeforeFirstStep(t *testing.T) {
	s := New(testConfig())
	assert.Empty(t, town.Characters(s.World()))
}

func TestSimulation_FirstStepGeneratesTown(t *testing.T) {
	s := New(testConfig())
	require.NoError(t, s.Step())

	characters := town.Characters(s.World())
	require.Len(t, characters, 8)

	// Every character got at least one starting trait.
	for _, character := range characters {
		tracker, err := ecs.Get[*traits.Traits](character)
		require.NoError(t, err)
		assert.NotEmpty(t, tracker.Names())
	}
}

func TestSimulation_TownGenerationRunsOnce(t *testing.T) {
	s := New(testConfig())
	require.NoError(t, s.Step())
	require.NoError(t, s.Step())
	require.NoError(t, s.Step())

	assert.Len(t, town.Characters(s.World()), 8)
}

func TestSimulation_AdvancesCalendar(t *testing.T) {
	s := New(testConfig())
	require.NoError(t, s.Run(14))

	date, err := ecs.GetResource[*simtime.Date](s.World())
	require.NoError(t, err)
	assert.Equal(t, 14, date.TotalMonths())
	assert.Equal(t, 3, date.Month)
	assert.Equal(t, 2, date.Year)
}

func TestSimulation_DispatchesMonthlyEvents(t *testing.T) {
	s := New(testConfig())

	months := 0
	s.World().Events().Subscribe(EventMonthElapsed, func(w *ecs.World, e ecs.Event) {
		months++
	})

	require.NoError(t, s.Run(5))
	assert.Equal(t, 5, months)
}

func TestSimulation_DeterministicAcrossRuns(t *testing.T) {
	run := func() []string {
		s := New(testConfig())
		if err := s.Run(12); err != nil {
			t.Fatal(err)
		}

		var state []string
		for _, character := range town.Characters(s.World()) {
			tracker, err := ecs.Get[*traits.Traits](character)
			require.NoError(t, err)
			state = append(state, character.Name())
			state = append(state, tracker.Names()...)
		}
		return state
	}

	assert.Equal(t, run(), run())
}

func TestSimulation_FixedSeedIsKept(t *testing.T) {
	s := New(testConfig())
	assert.Equal(t, int64(42), s.Seed())

	cfg := testConfig()
	cfg.Seed = 0
	assert.NotZero(t, New(cfg).Seed())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("TOWNLIFE_SEED", "7")
	t.Setenv("TOWNLIFE_MONTHS", "3")
	t.Setenv("TOWNLIFE_TOWN", "Elsewhere")
	t.Setenv("TOWNLIFE_DB", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 3, cfg.Months)
	assert.Equal(t, "Elsewhere", cfg.TownName)
	assert.Empty(t, cfg.DBPath)
	assert.Equal(t, 4, cfg.Districts)
}

func TestLoadConfig_DBPathDefaultsOnlyWhenUnset(t *testing.T) {
	// t.Setenv registers the restore; the variable must be absent, not
	// empty, for the default to apply.
	t.Setenv("TOWNLIFE_DB", "placeholder")
	require.NoError(t, os.Unsetenv("TOWNLIFE_DB"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "townlife.db", cfg.DBPath)

	t.Setenv("TOWNLIFE_DB", "")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.DBPath)
}

func TestLoadConfig_RejectsNegativeMonths(t *testing.T) {
	t.Setenv("TOWNLIFE_MONTHS", "-1")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestDefaultContent_TraitConflicts(t *testing.T) {
	library := DefaultTraits()
	gregarious, ok := library.Get("gregarious")
	require.True(t, ok)
	assert.Contains(t, gregarious.Conflicts, "recluse")

	rules := DefaultSocialRules()
	assert.NotEmpty(t, rules.Rules())
}
