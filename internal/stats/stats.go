// Package stats implements the numeric stat/modifier engine used by many
// component kinds. A stat derives its final value from a base value and an
// ordered collection of modifiers, recomputed lazily on read after any
// mutation, so a stale value never survives a read.
package stats

import (
	"math"
	"sort"
)

// ModifierKind specifies how a modifier's value enters the stat calculation.
// The numeric values double as default stacking orders: all flat modifiers
// apply before any percent-add, which applies before any percent-mult.
type ModifierKind int

const (
	// Flat adds a constant to the running total.
	Flat ModifierKind = 100
	// PercentAdd accumulates with adjacent percent-adds and applies the sum
	// as a single multiplicative factor.
	PercentAdd ModifierKind = 200
	// PercentMult applies individually and compounds.
	PercentMult ModifierKind = 300
)

// Modifier is a prioritized, optionally time-boxed adjustment to a stat.
type Modifier struct {
	// Value is the amount contributed, a fraction for the percent kinds.
	Value float64
	// Kind selects how Value is applied.
	Kind ModifierKind
	// Order ranks the modifier during stacking; 0 means "use the kind's
	// default". Equal orders keep insertion order.
	Order int
	// Source optionally tags the contributor (a trait, a social rule) so all
	// of its modifiers can be removed in one call. Sources must be
	// comparable values.
	Source any
	// Duration is the remaining number of steps before expiry; 0 or less
	// means permanent. The owning subsystem ticks durations, not the
	// scheduler.
	Duration int
}

func (m Modifier) order() int {
	if m.Order == 0 {
		return int(m.Kind)
	}
	return m.Order
}

// ToMap serializes the modifier for downstream logging.
func (m Modifier) ToMap() map[string]any {
	return map[string]any{
		"value":    m.Value,
		"kind":     int(m.Kind),
		"order":    m.order(),
		"duration": m.Duration,
	}
}

// Stat is a numeric value derived from a base value and a modifier list.
// The zero value is a usable unbounded stat with base 0.
type Stat struct {
	base      float64
	modifiers []Modifier
	value     float64
	dirty     bool

	bounded  bool
	minValue float64
	maxValue float64
	discrete bool
}

// New creates an unbounded stat.
func New(base float64) Stat {
	return Stat{base: base, value: base}
}

// NewBounded creates a stat clamped to [min, max].
func NewBounded(base, min, max float64) Stat {
	s := Stat{base: base, bounded: true, minValue: min, maxValue: max}
	s.dirty = true
	return s
}

// SetDiscrete toggles truncation of the final value to an integer.
func (s *Stat) SetDiscrete(value bool) {
	s.discrete = value
	s.dirty = true
}

// BaseValue returns the stat's unmodified base value.
func (s *Stat) BaseValue() float64 { return s.base }

// SetBaseValue replaces the base value and invalidates the cache.
func (s *Stat) SetBaseValue(value float64) {
	s.base = value
	s.dirty = true
}

// Value returns the final value, recomputing it first if any mutation
// happened since the last read.
func (s *Stat) Value() float64 {
	if s.dirty {
		s.recalculate()
	}
	return s.value
}

// AddModifier inserts a modifier, keeping the list sorted ascending by order.
// The sort is stable, so equal orders preserve insertion order.
func (s *Stat) AddModifier(m Modifier) {
	s.modifiers = append(s.modifiers, m)
	sort.SliceStable(s.modifiers, func(i, j int) bool {
		return s.modifiers[i].order() < s.modifiers[j].order()
	})
	s.dirty = true
}

// RemoveModifier removes the first modifier equal to m. It reports whether
// one was removed and never fails.
func (s *Stat) RemoveModifier(m Modifier) bool {
	for i, existing := range s.modifiers {
		if existing == m {
			s.modifiers = append(s.modifiers[:i], s.modifiers[i+1:]...)
			s.dirty = true
			return true
		}
	}
	return false
}

// RemoveModifiersFromSource removes every modifier recorded against the given
// source in one call, so revoking a trait or timed effect needs no
// per-modifier bookkeeping. It reports whether anything was removed.
func (s *Stat) RemoveModifiersFromSource(source any) bool {
	removed := false
	kept := s.modifiers[:0]
	for _, m := range s.modifiers {
		if m.Source == source {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	s.modifiers = kept
	if removed {
		s.dirty = true
	}
	return removed
}

// Modifiers returns the current modifiers in stacking order.
func (s *Stat) Modifiers() []Modifier {
	out := make([]Modifier, len(s.modifiers))
	copy(out, s.modifiers)
	return out
}

// TickDurations decrements every positive duration and drops expired
// modifiers. Permanent modifiers are untouched.
func (s *Stat) TickDurations() {
	kept := s.modifiers[:0]
	changed := false
	for _, m := range s.modifiers {
		if m.Duration > 0 {
			m.Duration--
			changed = true
			if m.Duration == 0 {
				continue
			}
		}
		kept = append(kept, m)
	}
	s.modifiers = kept
	if changed {
		s.dirty = true
	}
}

// recalculate folds the modifier list into the cached value. Flat modifiers
// add directly. A contiguous run of percent-adds accumulates into one sum and
// applies as a single factor when the run ends, so same-run percent-adds
// stack additively. Percent-mults apply immediately and compound.
func (s *Stat) recalculate() {
	total := s.base
	sumPercentAdd := 0.0

	for i, m := range s.modifiers {
		switch m.Kind {
		case Flat:
			total += m.Value
		case PercentAdd:
			sumPercentAdd += m.Value
			if i+1 >= len(s.modifiers) || s.modifiers[i+1].Kind != PercentAdd {
				total *= 1 + sumPercentAdd
				sumPercentAdd = 0
			}
		case PercentMult:
			total *= 1 + m.Value
		}
	}

	if s.bounded {
		total = math.Max(s.minValue, math.Min(s.maxValue, total))
	}
	if s.discrete {
		total = math.Trunc(total)
	}

	s.value = total
	s.dirty = false
}

// ToMap serializes the stat for downstream logging.
func (s *Stat) ToMap() map[string]any {
	return map[string]any{"value": s.Value(), "base": s.base}
}
