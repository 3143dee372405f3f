package relationship

import (
	"github.com/talgya/townlife/internal/ecs"
	"github.com/talgya/townlife/internal/stats"
)

// Reputation measures platonic affinity, clamped to [-100, 100].
type Reputation struct {
	stat stats.Stat
}

// NewReputation creates a reputation stat at its neutral base of 0.
func NewReputation() *Reputation {
	return &Reputation{stat: stats.NewBounded(0, -100, 100)}
}

// StatName implements stats.Provider.
func (r *Reputation) StatName() string { return "reputation" }

// Stat implements stats.Provider.
func (r *Reputation) Stat() *stats.Stat { return &r.stat }

// OnAdd registers the stat with the owner's tracker.
func (r *Reputation) OnAdd(g *ecs.GameObject) { stats.RegisterProvider(g, r) }

// OnRemove unregisters the stat from the owner's tracker.
func (r *Reputation) OnRemove(g *ecs.GameObject) { stats.UnregisterProvider(g, r) }

// ToMap serializes the stat for downstream logging.
func (r *Reputation) ToMap() map[string]any { return r.stat.ToMap() }

// Romance measures romantic affinity, clamped to [-100, 100].
type Romance struct {
	stat stats.Stat
}

// NewRomance creates a romance stat at its neutral base of 0.
func NewRomance() *Romance {
	return &Romance{stat: stats.NewBounded(0, -100, 100)}
}

// StatName implements stats.Provider.
func (r *Romance) StatName() string { return "romance" }

// Stat implements stats.Provider.
func (r *Romance) Stat() *stats.Stat { return &r.stat }

// OnAdd registers the stat with the owner's tracker.
func (r *Romance) OnAdd(g *ecs.GameObject) { stats.RegisterProvider(g, r) }

// OnRemove unregisters the stat from the owner's tracker.
func (r *Romance) OnRemove(g *ecs.GameObject) { stats.UnregisterProvider(g, r) }

// ToMap serializes the stat for downstream logging.
func (r *Romance) ToMap() map[string]any { return r.stat.ToMap() }

// InteractionScore counts accumulated positive contact, a discrete value in
// [0, 100].
type InteractionScore struct {
	stat stats.Stat
}

// NewInteractionScore creates an interaction score starting at 0.
func NewInteractionScore() *InteractionScore {
	score := &InteractionScore{stat: stats.NewBounded(0, 0, 100)}
	score.stat.SetDiscrete(true)
	return score
}

// StatName implements stats.Provider.
func (i *InteractionScore) StatName() string { return "interaction_score" }

// Stat implements stats.Provider.
func (i *InteractionScore) Stat() *stats.Stat { return &i.stat }

// OnAdd registers the stat with the owner's tracker.
func (i *InteractionScore) OnAdd(g *ecs.GameObject) { stats.RegisterProvider(g, i) }

// OnRemove unregisters the stat from the owner's tracker.
func (i *InteractionScore) OnRemove(g *ecs.GameObject) { stats.UnregisterProvider(g, i) }

// ToMap serializes the stat for downstream logging.
func (i *InteractionScore) ToMap() map[string]any { return i.stat.ToMap() }
