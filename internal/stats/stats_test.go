package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStat_FlatThenPercentAdd(t *testing.T) {
	s := New(10)
	s.AddModifier(Modifier{Value: 5, Kind: Flat})
	s.AddModifier(Modifier{Value: 0.5, Kind: PercentAdd})

	// (10 + 5) * 1.5
	assert.Equal(t, 22.5, s.Value())
}

func TestStat_PercentAddRunStacksAdditively(t *testing.T) {
	s := New(100)
	s.AddModifier(Modifier{Value: 0.1, Kind: PercentAdd})
	s.AddModifier(Modifier{Value: 0.2, Kind: PercentAdd})

	// One factor for the whole run: 100 * (1 + 0.1 + 0.2), not compounded.
	assert.Equal(t, 130.0, s.Value())
}

func TestStat_PercentMultCompounds(t *testing.T) {
	s := New(10)
	s.AddModifier(Modifier{Value: 0.5, Kind: PercentMult})
	s.AddModifier(Modifier{Value: 0.5, Kind: PercentMult})

	// 10 * 1.5 * 1.5: each percent-mult applies individually.
	assert.InDelta(t, 22.5, s.Value(), 1e-9)
}

func TestStat_ExplicitOrderSplitsPercentAddRun(t *testing.T) {
	s := New(100)
	s.AddModifier(Modifier{Value: 0.1, Kind: PercentAdd})
	// A flat between the percent-adds ends the first run, so the two
	// percent-adds each apply as their own factor.
	s.AddModifier(Modifier{Value: 0.1, Kind: PercentAdd, Order: 260})
	s.AddModifier(Modifier{Value: 10, Kind: Flat, Order: 250})

	// 100 * 1.1 = 110, + 10 = 120, * 1.1 = 132.
	assert.InDelta(t, 132.0, s.Value(), 1e-9)
}

func TestStat_EqualOrderKeepsInsertionOrder(t *testing.T) {
	s := New(10)
	s.AddModifier(Modifier{Value: 1.0, Kind: PercentMult, Order: 50})
	s.AddModifier(Modifier{Value: 5, Kind: Flat, Order: 50})

	// The percent-mult was inserted first at the same order, so it applies
	// before the flat: 10 * 2 + 5, not (10 + 5) * 2.
	assert.Equal(t, 25.0, s.Value())
}

func TestStat_BoundedClampsAfterModifiers(t *testing.T) {
	s := NewBounded(90, 0, 100)
	s.AddModifier(Modifier{Value: 50, Kind: Flat})
	assert.Equal(t, 100.0, s.Value())

	s.AddModifier(Modifier{Value: -500, Kind: Flat})
	assert.Equal(t, 0.0, s.Value())
}

func TestStat_DiscreteTruncates(t *testing.T) {
	s := New(10)
	s.SetDiscrete(true)
	s.AddModifier(Modifier{Value: 0.55, Kind: PercentAdd})

	assert.Equal(t, 15.0, s.Value())
}

func TestStat_SetBaseValueInvalidates(t *testing.T) {
	s := New(10)
	s.AddModifier(Modifier{Value: 0.5, Kind: PercentAdd})
	require.Equal(t, 15.0, s.Value())

	s.SetBaseValue(20)
	assert.Equal(t, 30.0, s.Value())
}

func TestStat_RemoveModifier(t *testing.T) {
	s := New(10)
	m := Modifier{Value: 5, Kind: Flat}
	s.AddModifier(m)
	require.Equal(t, 15.0, s.Value())

	assert.True(t, s.RemoveModifier(m))
	assert.Equal(t, 10.0, s.Value())
	assert.False(t, s.RemoveModifier(m))
}

func TestStat_RemoveModifiersFromSource(t *testing.T) {
	type trait struct{ name string }
	grumpy := &trait{name: "grumpy"}
	kind := &trait{name: "kind"}

	s := New(10)
	s.AddModifier(Modifier{Value: -3, Kind: Flat, Source: grumpy})
	s.AddModifier(Modifier{Value: -2, Kind: Flat, Source: grumpy})
	s.AddModifier(Modifier{Value: 4, Kind: Flat, Source: kind})

	assert.True(t, s.RemoveModifiersFromSource(grumpy))
	assert.Equal(t, 14.0, s.Value())
	assert.Len(t, s.Modifiers(), 1)

	assert.False(t, s.RemoveModifiersFromSource(grumpy))
}

func TestStat_TickDurations(t *testing.T) {
	s := New(10)
	s.AddModifier(Modifier{Value: 5, Kind: Flat, Duration: 2})
	s.AddModifier(Modifier{Value: 1, Kind: Flat}) // permanent
	require.Equal(t, 16.0, s.Value())

	s.TickDurations()
	assert.Equal(t, 16.0, s.Value())

	s.TickDurations()
	assert.Equal(t, 11.0, s.Value())
	assert.Len(t, s.Modifiers(), 1)
}

func TestStats_TrackerRegistrationOrder(t *testing.T) {
	tracker := NewStats()
	health := New(100)
	mood := New(50)
	tracker.Add("health", &health)
	tracker.Add("mood", &mood)

	assert.Equal(t, []string{"health", "mood"}, tracker.Names())

	got, ok := tracker.Get("mood")
	require.True(t, ok)
	assert.Equal(t, 50.0, got.Value())

	assert.True(t, tracker.Remove("health"))
	assert.Equal(t, []string{"mood"}, tracker.Names())
	assert.False(t, tracker.Remove("health"))
}

func TestStats_RemoveModifiersFromSourceAcrossStats(t *testing.T) {
	source := &struct{ name string }{name: "rule"}

	tracker := NewStats()
	a := New(10)
	b := New(20)
	tracker.Add("a", &a)
	tracker.Add("b", &b)

	a.AddModifier(Modifier{Value: 1, Kind: Flat, Source: source})
	b.AddModifier(Modifier{Value: 2, Kind: Flat, Source: source})

	assert.True(t, tracker.RemoveModifiersFromSource(source))
	assert.Equal(t, 10.0, a.Value())
	assert.Equal(t, 20.0, b.Value())
}
