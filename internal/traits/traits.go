// Package traits implements data-driven character traits. A trait is a named
// definition whose stat effects are applied to the holder as modifiers tagged
// with the trait as their source, so revoking the trait strips every
// contribution in one call.
package traits

import (
	"fmt"

	"github.com/talgya/townlife/internal/ecs"
	"github.com/talgya/townlife/internal/stats"
)

// EventTraitAdded is dispatched after a trait is applied to an entity.
const EventTraitAdded = "trait-added"

// EventTraitRemoved is dispatched after a trait is revoked from an entity.
const EventTraitRemoved = "trait-removed"

// StatEffect adjusts one named stat on the trait holder.
type StatEffect struct {
	// Stat names the target in the holder's Stats tracker.
	Stat string
	// Modifier is applied with its Source overwritten by the owning trait.
	Modifier stats.Modifier
}

// Trait is a reusable trait definition. Definitions are shared; per-holder
// state lives in the modifiers they contribute.
type Trait struct {
	// Name uniquely identifies the trait within a library.
	Name string
	// Description is a short human-readable blurb for logs.
	Description string
	// Effects are the stat adjustments applied to the holder.
	Effects []StatEffect
	// Conflicts lists trait names that cannot coexist with this one.
	Conflicts []string
}

// Library is the resource holding every registered trait definition, in
// registration order.
type Library struct {
	names  []string
	traits map[string]*Trait
}

// NewLibrary creates an empty trait library.
func NewLibrary() *Library {
	return &Library{traits: make(map[string]*Trait)}
}

// Register adds a trait definition. Re-registering a name replaces the
// definition but keeps its original position.
func (l *Library) Register(t *Trait) {
	if _, ok := l.traits[t.Name]; !ok {
		l.names = append(l.names, t.Name)
	}
	l.traits[t.Name] = t
}

// Get returns the trait definition for a name, or false when unknown.
func (l *Library) Get(name string) (*Trait, bool) {
	t, ok := l.traits[name]
	return t, ok
}

// Names returns the registered trait names in registration order.
func (l *Library) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Traits tracks the trait names held by an entity, in order of application.
type Traits struct {
	ecs.TagComponent
	held []string
}

// NewTraits creates an empty trait tracker.
func NewTraits() *Traits {
	return &Traits{}
}

// Has reports whether the entity holds the named trait.
func (t *Traits) Has(name string) bool {
	for _, held := range t.held {
		if held == name {
			return true
		}
	}
	return false
}

// Names returns the held trait names in order of application.
func (t *Traits) Names() []string {
	out := make([]string, len(t.held))
	copy(out, t.held)
	return out
}

func (t *Traits) add(name string) {
	t.held = append(t.held, name)
}

func (t *Traits) remove(name string) bool {
	for i, held := range t.held {
		if held == name {
			t.held = append(t.held[:i], t.held[i+1:]...)
			return true
		}
	}
	return false
}

// ToMap serializes the tracker for downstream logging.
func (t *Traits) ToMap() map[string]any {
	return map[string]any{"traits": t.Names()}
}

// Add applies the named trait to an entity: the trait is recorded on the
// Traits component and its stat effects are added with the trait definition
// as their modifier source. Adding a held or conflicting trait is a no-op
// returning false.
func Add(g *ecs.GameObject, name string) (bool, error) {
	library, err := ecs.GetResource[*Library](g.World())
	if err != nil {
		return false, err
	}
	trait, ok := library.Get(name)
	if !ok {
		return false, fmt.Errorf("trait %q is not registered", name)
	}

	tracker, err := ecs.Get[*Traits](g)
	if err != nil {
		return false, err
	}
	if tracker.Has(name) {
		return false, nil
	}
	for _, conflict := range trait.Conflicts {
		if tracker.Has(conflict) {
			return false, nil
		}
	}

	tracker.add(name)
	applyEffects(g, trait)

	g.World().Dispatch(ecs.Event{
		Kind: EventTraitAdded,
		Data: map[string]any{"entity": g.UID(), "trait": name},
	})
	return true, nil
}

// Remove revokes the named trait, stripping every modifier it contributed
// across the entity's stats in one call. Removing an absent trait returns
// false without error.
func Remove(g *ecs.GameObject, name string) (bool, error) {
	library, err := ecs.GetResource[*Library](g.World())
	if err != nil {
		return false, err
	}
	trait, ok := library.Get(name)
	if !ok {
		return false, nil
	}

	tracker, err := ecs.Get[*Traits](g)
	if err != nil {
		return false, err
	}
	if !tracker.remove(name) {
		return false, nil
	}

	if statsComp, ok := ecs.Try[*stats.Stats](g); ok {
		statsComp.RemoveModifiersFromSource(trait)
	}

	g.World().Dispatch(ecs.Event{
		Kind: EventTraitRemoved,
		Data: map[string]any{"entity": g.UID(), "trait": name},
	})
	return true, nil
}

func applyEffects(g *ecs.GameObject, trait *Trait) {
	statsComp, ok := ecs.Try[*stats.Stats](g)
	if !ok {
		return
	}
	for _, effect := range trait.Effects {
		stat, ok := statsComp.Get(effect.Stat)
		if !ok {
			continue
		}
		m := effect.Modifier
		m.Source = trait
		stat.AddModifier(m)
	}
}

// HasTrait reports whether the entity holds the named trait; entities
// without a Traits component hold nothing.
func HasTrait(g *ecs.GameObject, name string) bool {
	tracker, ok := ecs.Try[*Traits](g)
	return ok && tracker.Has(name)
}
