package ecs

import "iter"

// GameObjectManager owns entity identity and the dead-entity queue for a
// single world instance.
type GameObjectManager struct {
	world   *World
	objects map[uint32]*GameObject
	dead    []uint32
	deadSet map[uint32]bool
	nextUID uint32
}

func newGameObjectManager(world *World) *GameObjectManager {
	return &GameObjectManager{
		world:   world,
		objects: make(map[uint32]*GameObject),
		deadSet: make(map[uint32]bool),
	}
}

// Spawn creates a new entity with the given components attached and
// activates it immediately.
func (m *GameObjectManager) Spawn(name string, components ...Component) *GameObject {
	m.nextUID++
	if name == "" {
		name = "GameObject"
	}

	g := &GameObject{
		uid:      m.nextUID,
		name:     name,
		world:    m.world,
		metadata: make(map[string]any),
	}
	m.objects[g.uid] = g

	for _, c := range components {
		g.AddComponent(c)
	}
	g.Activate()

	return g
}

// Get looks up an entity by id, failing with GameObjectNotFoundError when the
// id is unknown.
func (m *GameObjectManager) Get(uid uint32) (*GameObject, error) {
	if g, ok := m.objects[uid]; ok {
		return g, nil
	}
	return nil, GameObjectNotFoundError{UID: uid}
}

// Has reports whether an entity with the given id exists.
func (m *GameObjectManager) Has(uid uint32) bool {
	_, ok := m.objects[uid]
	return ok
}

// Len returns the number of live entities, including ones pending flush.
func (m *GameObjectManager) Len() int {
	return len(m.objects)
}

// Destroy enqueues an entity and its whole subtree for destruction. Attached
// components are removed immediately, in reverse order of addition, so their
// remove hooks can cascade (relationship cleanup in particular). The identity
// records are deleted at the next step flush.
func (m *GameObjectManager) Destroy(g *GameObject) {
	if m.deadSet[g.uid] || !m.Has(g.uid) {
		return
	}
	m.deadSet[g.uid] = true
	m.dead = append(m.dead, g.uid)

	for _, child := range g.Children {
		m.Destroy(child)
	}

	ids := g.ComponentIDs()
	for i := len(ids) - 1; i >= 0; i-- {
		g.RemoveComponent(ids[i])
	}
}

// ClearDead flushes the dead-entity queue. Called once per step before the
// update pass.
func (m *GameObjectManager) ClearDead() {
	for _, uid := range m.dead {
		g, ok := m.objects[uid]
		if !ok {
			continue
		}
		if g.Parent != nil {
			g.Parent.RemoveChild(g)
		}
		delete(m.objects, uid)
		delete(m.deadSet, uid)
	}
	m.dead = m.dead[:0]
}

// Each iterates every entity possessing all listed component types along with
// the matching component instances, in deterministic order.
func (m *GameObjectManager) Each(ids ...ComponentID) iter.Seq2[*GameObject, []Component] {
	return func(yield func(*GameObject, []Component) bool) {
		for _, uid := range m.world.components.entitiesWith(ids...) {
			g, ok := m.objects[uid]
			if !ok {
				continue
			}
			comps := make([]Component, len(ids))
			for i, id := range ids {
				c, ok := g.TryComponent(id)
				if !ok {
					comps = nil
					break
				}
				comps[i] = c
			}
			if comps == nil {
				continue
			}
			if !yield(g, comps) {
				return
			}
		}
	}
}
