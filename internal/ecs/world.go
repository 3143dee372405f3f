package ecs

import "iter"

// World ties together entity storage, shared resources, the scheduler, and
// event routing for one simulation instance.
type World struct {
	components  *componentManager
	gameobjects *GameObjectManager
	resources   *ResourceManager
	systems     *SystemManager
	events      *EventManager
	tick        uint64
}

// NewWorld creates an empty world.
func NewWorld() *World {
	w := &World{
		components: newComponentManager(),
		resources:  newResourceManager(),
		events:     newEventManager(),
	}
	w.gameobjects = newGameObjectManager(w)
	w.systems = newSystemManager(w)
	return w
}

// GameObjects returns the world's entity manager.
func (w *World) GameObjects() *GameObjectManager { return w.gameobjects }

// Resources returns the world's resource manager.
func (w *World) Resources() *ResourceManager { return w.resources }

// Systems returns the world's scheduler.
func (w *World) Systems() *SystemManager { return w.systems }

// Events returns the world's event manager.
func (w *World) Events() *EventManager { return w.events }

// Tick returns the number of completed steps.
func (w *World) Tick() uint64 { return w.tick }

// Spawn creates a new entity with the given components and activates it.
func (w *World) Spawn(name string, components ...Component) *GameObject {
	return w.gameobjects.Spawn(name, components...)
}

// GetGameObject looks up an entity by id.
func (w *World) GetGameObject(uid uint32) (*GameObject, error) {
	return w.gameobjects.Get(uid)
}

// HasGameObject reports whether an entity with the given id exists.
func (w *World) HasGameObject(uid uint32) bool {
	return w.gameobjects.Has(uid)
}

// Each iterates every entity possessing all listed component types.
func (w *World) Each(ids ...ComponentID) iter.Seq2[*GameObject, []Component] {
	return w.gameobjects.Each(ids...)
}

// Dispatch fires an event through the world's event manager, stamping it with
// the current tick when unset.
func (w *World) Dispatch(event Event) {
	if event.Tick == 0 {
		event.Tick = w.tick
	}
	w.events.Dispatch(w, event)
}

// Step advances the simulation by one tick: deferred destructions are flushed
// first, then the system tree runs to completion in priority order.
func (w *World) Step() error {
	w.gameobjects.ClearDead()
	w.tick++
	return w.systems.Update()
}
