package sim

import (
	"fmt"
	"log/slog"

	"github.com/talgya/townlife/internal/ecs"
	"github.com/talgya/townlife/internal/relationship"
	"github.com/talgya/townlife/internal/rng"
	"github.com/talgya/townlife/internal/simtime"
	"github.com/talgya/townlife/internal/stats"
	"github.com/talgya/townlife/internal/town"
	"github.com/talgya/townlife/internal/traits"
)

// EventSocialized is dispatched whenever two characters interact.
const EventSocialized = "socialized"

// EventMonthElapsed is dispatched at the end of every step.
const EventMonthElapsed = "month-elapsed"

// SpawnTownSystem generates the settlement and its starting population on the
// first step, hands out initial traits, then disables itself.
type SpawnTownSystem struct {
	ecs.SystemBase
	cfg Config
}

// NewSpawnTownSystem creates the one-shot town generation system.
func NewSpawnTownSystem(cfg Config) *SpawnTownSystem {
	return &SpawnTownSystem{cfg: cfg}
}

// Name implements ecs.System.
func (s *SpawnTownSystem) Name() string { return "spawn-town" }

// OnUpdate implements ecs.System.
func (s *SpawnTownSystem) OnUpdate(w *ecs.World) error {
	defer s.SetActive(false)

	source, err := ecs.GetResource[*rng.Source](w)
	if err != nil {
		return err
	}

	settlement, err := town.Generate(w, town.GenConfig{
		Name:       s.cfg.TownName,
		Districts:  s.cfg.Districts,
		Population: s.cfg.Population,
	}, source)
	if err != nil {
		return fmt.Errorf("generate town: %w", err)
	}

	characters := town.Characters(w)
	if err := s.assignTraits(w, source, characters); err != nil {
		return err
	}

	slog.Info("town generated",
		"settlement", settlement.Name(),
		"districts", len(settlement.Children),
		"population", len(characters))
	return nil
}

// assignTraits gives every character one or two random traits. Conflicting
// picks are skipped rather than rerolled, so some characters end up with a
// single trait.
func (s *SpawnTownSystem) assignTraits(w *ecs.World, source *rng.Source, characters []*ecs.GameObject) error {
	library, err := ecs.GetResource[*traits.Library](w)
	if err != nil {
		return err
	}
	names := library.Names()
	if len(names) == 0 {
		return nil
	}

	for _, character := range characters {
		count := source.IntRange(1, 3)
		for i := 0; i < count; i++ {
			name := names[source.IntRange(0, len(names))]
			if _, err := traits.Add(character, name); err != nil {
				return fmt.Errorf("assign trait %q to %s: %w", name, character.Name(), err)
			}
		}
	}
	return nil
}

// ModifierDurationSystem ticks down timed stat modifiers across every entity
// with a stat tracker, dropping the ones that expire. Runs in early-update so
// expired effects are gone before this month's social activity.
type ModifierDurationSystem struct {
	ecs.SystemBase
}

// Name implements ecs.System.
func (s *ModifierDurationSystem) Name() string { return "modifier-durations" }

// OnUpdate implements ecs.System.
func (s *ModifierDurationSystem) OnUpdate(w *ecs.World) error {
	for _, components := range w.Each(ecs.ID[*stats.Stats]()) {
		tracker := components[0].(*stats.Stats)
		tracker.EachStat(func(name string, stat *stats.Stat) {
			stat.TickDurations()
		})
	}
	return nil
}

// SocializeSystem drives monthly social contact. Each active character rolls
// against their sociability; on success they meet a random other active
// character, the directed relationship is fetched or created, its interaction
// score grows, and a short-lived reputation boost marks the recent contact.
type SocializeSystem struct {
	ecs.SystemBase
	characters *ecs.Query
}

// NewSocializeSystem creates the socialize system with its character query.
func NewSocializeSystem() *SocializeSystem {
	return &SocializeSystem{
		characters: ecs.NewQueryBuilder("character").
			With("character", ecs.ID[*town.Character](), ecs.ID[*ecs.Active]()).
			Build(),
	}
}

// Name implements ecs.System.
func (s *SocializeSystem) Name() string { return "socialize" }

// OnUpdate implements ecs.System.
func (s *SocializeSystem) OnUpdate(w *ecs.World) error {
	source, err := ecs.GetResource[*rng.Source](w)
	if err != nil {
		return err
	}

	rows, err := s.characters.Execute(w)
	if err != nil {
		return fmt.Errorf("character query: %w", err)
	}
	if len(rows) < 2 {
		return nil
	}

	for i, row := range rows {
		character, err := w.GetGameObject(row[0])
		if err != nil {
			return err
		}

		if !source.Chance(s.contactChance(character)) {
			continue
		}

		pick := source.IntRange(0, len(rows)-1)
		if pick >= i {
			pick++
		}
		partner, err := w.GetGameObject(rows[pick][0])
		if err != nil {
			return err
		}

		if err := s.interact(w, character, partner); err != nil {
			return err
		}
	}
	return nil
}

// contactChance maps sociability in [0, 100] onto a monthly interaction
// probability in [0, 0.9].
func (s *SocializeSystem) contactChance(character *ecs.GameObject) float64 {
	tracker, ok := ecs.Try[*stats.Stats](character)
	if !ok {
		return 0
	}
	sociability, ok := tracker.Get("sociability")
	if !ok {
		return 0
	}
	return sociability.Value() / 100 * 0.9
}

func (s *SocializeSystem) interact(w *ecs.World, character, partner *ecs.GameObject) error {
	rel, err := relationship.Get(character, partner)
	if err != nil {
		return err
	}

	score, err := ecs.Get[*relationship.InteractionScore](rel)
	if err != nil {
		return err
	}
	score.Stat().SetBaseValue(score.Stat().BaseValue() + 1)

	// Warm afterglow from the meeting, fading after half a year.
	if tracker, ok := ecs.Try[*stats.Stats](rel); ok {
		if reputation, ok := tracker.Get("reputation"); ok {
			reputation.AddModifier(stats.Modifier{
				Value:    2,
				Kind:     stats.Flat,
				Source:   s,
				Duration: 6,
			})
		}
	}

	w.Dispatch(ecs.Event{
		Kind: EventSocialized,
		Data: map[string]any{
			"character":    character.UID(),
			"partner":      partner.UID(),
			"relationship": rel.UID(),
		},
	})
	return nil
}

// TimeSystem advances the calendar at the end of every step.
type TimeSystem struct {
	ecs.SystemBase
}

// Name implements ecs.System.
func (s *TimeSystem) Name() string { return "advance-time" }

// OnUpdate implements ecs.System.
func (s *TimeSystem) OnUpdate(w *ecs.World) error {
	date, err := ecs.GetResource[*simtime.Date](w)
	if err != nil {
		return err
	}
	date.Advance()

	w.Dispatch(ecs.Event{
		Kind: EventMonthElapsed,
		Data: map[string]any{"date": date.String()},
	})
	slog.Debug("month elapsed", "date", date)
	return nil
}
