// Package relationship implements the directed social graph. Each
// relationship is a first-class entity owning stat components (reputation,
// romance, interaction score) and a trait tracker, indexed from both
// endpoints: the owner's outgoing map and the target's incoming map always
// reference the same relationship entity.
package relationship

import (
	"fmt"

	"github.com/talgya/townlife/internal/ecs"
	"github.com/talgya/townlife/internal/stats"
	"github.com/talgya/townlife/internal/traits"
)

// EventRelationshipCreated is dispatched after a new relationship entity is
// spawned and its social rules applied.
const EventRelationshipCreated = "relationship-created"

// Relationship tags an entity as a relationship and records its endpoints.
type Relationship struct {
	// Owner is the entity the relationship belongs to.
	Owner *ecs.GameObject
	// Target is the entity the relationship is directed toward.
	Target *ecs.GameObject
}

// ToMap serializes the endpoints for downstream logging.
func (r *Relationship) ToMap() map[string]any {
	return map[string]any{"owner": r.Owner.UID(), "target": r.Target.UID()}
}

// OnRemove unlinks the relationship from both endpoint indices. Fires when
// the relationship entity is destroyed, keeping the two indices in agreement.
func (r *Relationship) OnRemove(rel *ecs.GameObject) {
	if rels, ok := ecs.Try[*Relationships](r.Owner); ok {
		rels.outgoing.remove(r.Target)
	}
	if rels, ok := ecs.Try[*Relationships](r.Target); ok {
		rels.incoming.remove(r.Owner)
	}
}

// relationshipIndex is an insertion-ordered map from an endpoint entity to a
// relationship entity. Insertion order keeps re-evaluation deterministic.
type relationshipIndex struct {
	keys    []*ecs.GameObject
	entries map[*ecs.GameObject]*ecs.GameObject
}

func newRelationshipIndex() *relationshipIndex {
	return &relationshipIndex{entries: make(map[*ecs.GameObject]*ecs.GameObject)}
}

func (idx *relationshipIndex) get(key *ecs.GameObject) (*ecs.GameObject, bool) {
	rel, ok := idx.entries[key]
	return rel, ok
}

func (idx *relationshipIndex) set(key, rel *ecs.GameObject) {
	if _, ok := idx.entries[key]; !ok {
		idx.keys = append(idx.keys, key)
	}
	idx.entries[key] = rel
}

func (idx *relationshipIndex) remove(key *ecs.GameObject) bool {
	if _, ok := idx.entries[key]; !ok {
		return false
	}
	delete(idx.entries, key)
	for i, k := range idx.keys {
		if k == key {
			idx.keys = append(idx.keys[:i], idx.keys[i+1:]...)
			break
		}
	}
	return true
}

// snapshot returns the live (key, relationship) pairs in insertion order,
// safe to iterate while the index mutates.
func (idx *relationshipIndex) snapshot() []*ecs.GameObject {
	out := make([]*ecs.GameObject, 0, len(idx.keys))
	for _, key := range idx.keys {
		out = append(out, idx.entries[key])
	}
	return out
}

// Relationships tracks every relationship incident to an entity.
type Relationships struct {
	outgoing *relationshipIndex // target -> relationship entity
	incoming *relationshipIndex // owner -> relationship entity
}

// NewRelationships creates an empty relationship tracker.
func NewRelationships() *Relationships {
	return &Relationships{
		outgoing: newRelationshipIndex(),
		incoming: newRelationshipIndex(),
	}
}

// Outgoing returns the relationship entities this entity owns, in creation
// order.
func (r *Relationships) Outgoing() []*ecs.GameObject { return r.outgoing.snapshot() }

// Incoming returns the relationship entities directed at this entity, in
// creation order.
func (r *Relationships) Incoming() []*ecs.GameObject { return r.incoming.snapshot() }

// OnRemove destroys every incident relationship entity, both directions.
// This is the destruction cascade: removing the tracker (which happens when
// its entity is destroyed) takes all relationship entities with it, and each
// relationship's own remove hook unlinks the far endpoint's index.
func (r *Relationships) OnRemove(owner *ecs.GameObject) {
	for _, rel := range r.outgoing.snapshot() {
		rel.Destroy()
	}
	for _, rel := range r.incoming.snapshot() {
		rel.Destroy()
	}
}

// ToMap serializes both indices for downstream logging.
func (r *Relationships) ToMap() map[string]any {
	outgoing := map[string]any{}
	for key, rel := range r.outgoing.entries {
		outgoing[fmt.Sprint(key.UID())] = rel.UID()
	}
	incoming := map[string]any{}
	for key, rel := range r.incoming.entries {
		incoming[fmt.Sprint(key.UID())] = rel.UID()
	}
	return map[string]any{"outgoing": outgoing, "incoming": incoming}
}

// Add creates a relationship from owner to target, or returns the existing
// one: the operation is idempotent. New relationship entities get a stat
// tracker, a trait tracker, and the standard relationship stats, then every
// registered social rule is evaluated and applied in registration order.
func Add(owner, target *ecs.GameObject) (*ecs.GameObject, error) {
	ownerRels, err := ecs.Get[*Relationships](owner)
	if err != nil {
		return nil, err
	}
	if rel, ok := ownerRels.outgoing.get(target); ok {
		return rel, nil
	}
	targetRels, err := ecs.Get[*Relationships](target)
	if err != nil {
		return nil, err
	}

	w := owner.World()
	rel := w.Spawn(
		fmt.Sprintf("%s -> %s", owner.Name(), target.Name()),
		stats.NewStats(),
		traits.NewTraits(),
		NewReputation(),
		NewRomance(),
		NewInteractionScore(),
		&Relationship{Owner: owner, Target: target},
	)

	ownerRels.outgoing.set(target, rel)
	targetRels.incoming.set(owner, rel)

	if library, ok := ecs.TryResource[*SocialRuleLibrary](w); ok {
		library.applyMatching(owner, target, rel)
	}

	w.Dispatch(ecs.Event{
		Kind: EventRelationshipCreated,
		Data: map[string]any{
			"relationship": rel.UID(),
			"owner":        owner.UID(),
			"target":       target.UID(),
		},
	})

	return rel, nil
}

// Get returns the relationship from owner to target, creating it when
// absent. It never fails for live entities.
func Get(owner, target *ecs.GameObject) (*ecs.GameObject, error) {
	if rels, ok := ecs.Try[*Relationships](owner); ok {
		if rel, ok := rels.outgoing.get(target); ok {
			return rel, nil
		}
	}
	return Add(owner, target)
}

// Has reports whether a relationship from owner to target exists. It never
// creates one.
func Has(owner, target *ecs.GameObject) bool {
	rels, ok := ecs.Try[*Relationships](owner)
	if !ok {
		return false
	}
	_, ok = rels.outgoing.get(target)
	return ok
}

// Destroy removes the relationship from owner to target: both index entries
// are deleted and the relationship entity is destroyed. It reports false
// when no relationship exists.
func Destroy(owner, target *ecs.GameObject) bool {
	rels, ok := ecs.Try[*Relationships](owner)
	if !ok {
		return false
	}
	rel, ok := rels.outgoing.get(target)
	if !ok {
		return false
	}

	rels.outgoing.remove(target)
	if targetRels, ok := ecs.Try[*Relationships](target); ok {
		targetRels.incoming.remove(owner)
	}
	rel.Destroy()
	return true
}

// Reevaluate re-derives the rule-contributed modifiers on every relationship
// incident to the entity: each relationship first has every modifier sourced
// from the registered rule set removed, then every rule's precondition is
// re-checked and matches re-applied in registration order. The pass is
// idempotent, so the final stacking order is independent of how many times
// it runs.
//
// Both outgoing and incoming relationships are covered, since rule
// preconditions read both endpoints; each relationship entity is re-derived
// at most once per call.
func Reevaluate(g *ecs.GameObject) error {
	rels, err := ecs.Get[*Relationships](g)
	if err != nil {
		return err
	}
	library, ok := ecs.TryResource[*SocialRuleLibrary](g.World())
	if !ok {
		return nil
	}

	seen := make(map[*ecs.GameObject]bool)
	for _, rel := range append(rels.Outgoing(), rels.Incoming()...) {
		if seen[rel] {
			continue
		}
		seen[rel] = true
		if err := library.reevaluate(rel); err != nil {
			return err
		}
	}
	return nil
}

// WithRelationship binds (owner, target, relationship) triples for every
// relationship entity in the world, for use in query pipelines.
func WithRelationship(ownerVar, targetVar, relVar ecs.Symbol) ecs.Clause {
	return ecs.From(func(w *ecs.World) [][]uint32 {
		var rows [][]uint32
		for rel, comps := range w.Each(ecs.ID[*Relationship]()) {
			r := comps[0].(*Relationship)
			rows = append(rows, []uint32{r.Owner.UID(), r.Target.UID(), rel.UID()})
		}
		return rows
	}, ownerVar, targetVar, relVar)
}
