// Package sim assembles a runnable town simulation: a world populated with
// the standard resources, the four scheduler phases, the built-in systems,
// and the default trait and social rule content.
package sim

import (
	"log/slog"
	"math/rand"

	"github.com/talgya/townlife/internal/ecs"
	"github.com/talgya/townlife/internal/relationship"
	"github.com/talgya/townlife/internal/rng"
	"github.com/talgya/townlife/internal/simtime"
	"github.com/talgya/townlife/internal/traits"
)

// Scheduler phase names. Phases run in this order every step; systems mount
// into a phase by name.
const (
	PhaseInitialization = "initialization"
	PhaseEarlyUpdate    = "early-update"
	PhaseUpdate         = "update"
	PhaseLateUpdate     = "late-update"
)

// Simulation is one configured run.
type Simulation struct {
	cfg   Config
	seed  int64
	world *ecs.World
}

// New builds a simulation from the configuration: resources, content
// libraries, trait event wiring, and the phase groups with their systems.
// Nothing is spawned until the first step runs the initialization phase.
func New(cfg Config) *Simulation {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	w := ecs.NewWorld()
	w.Resources().Add(rng.New(seed))
	w.Resources().Add(simtime.NewDate())
	w.Resources().Add(DefaultTraits())
	w.Resources().Add(DefaultSocialRules())

	// Trait changes can flip social rule preconditions on either endpoint,
	// so every incident relationship is re-derived when one fires.
	reevaluate := func(w *ecs.World, event ecs.Event) {
		uid, ok := event.Data["entity"].(uint32)
		if !ok {
			return
		}
		g, err := w.GetGameObject(uid)
		if err != nil {
			return
		}
		if _, ok := ecs.Try[*relationship.Relationships](g); !ok {
			return
		}
		if err := relationship.Reevaluate(g); err != nil {
			slog.Warn("relationship reevaluation failed", "entity", g.Name(), "error", err)
		}
	}
	w.Events().Subscribe(traits.EventTraitAdded, reevaluate)
	w.Events().Subscribe(traits.EventTraitRemoved, reevaluate)

	initialization := ecs.NewSystemGroup(PhaseInitialization)
	earlyUpdate := ecs.NewSystemGroup(PhaseEarlyUpdate)
	update := ecs.NewSystemGroup(PhaseUpdate)
	lateUpdate := ecs.NewSystemGroup(PhaseLateUpdate)

	systems := w.Systems()
	systems.AddSystem(initialization, 400)
	systems.AddSystem(earlyUpdate, 300)
	systems.AddSystem(update, 200)
	systems.AddSystem(lateUpdate, 100)

	initialization.AddChild(NewSpawnTownSystem(cfg), 0)
	earlyUpdate.AddChild(&ModifierDurationSystem{}, 0)
	update.AddChild(NewSocializeSystem(), 0)
	lateUpdate.AddChild(&TimeSystem{}, 0)

	return &Simulation{cfg: cfg, seed: seed, world: w}
}

// World returns the underlying world.
func (s *Simulation) World() *ecs.World { return s.world }

// Seed returns the effective seed for this run.
func (s *Simulation) Seed() int64 { return s.seed }

// Step advances the simulation by one month.
func (s *Simulation) Step() error { return s.world.Step() }

// Run advances the simulation by the given number of months, stopping at the
// first step error.
func (s *Simulation) Run(months int) error {
	for i := 0; i < months; i++ {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}
