// Package ecs implements the entity/component runtime at the heart of the
// simulation: component storage, entity identity and hierarchy, shared
// resources, the system scheduler, and the relational query engine.
//
// The runtime is strictly single-threaded. Execution order is a function of
// explicit system priorities and insertion order only, so a run is fully
// reproducible given a fixed seed.
package ecs

import (
	"reflect"
	"sync"
)

// ComponentID identifies a component type within the runtime. IDs are assigned
// once per Go type on first use and are stable for the life of the process.
type ComponentID uint32

// Component is a typed data record attached to at most one entity per type.
type Component interface {
	// ToMap serializes the component for downstream logging.
	ToMap() map[string]any
}

// AddAware components are notified after being attached to an entity.
type AddAware interface {
	OnAdd(owner *GameObject)
}

// RemoveAware components are notified before being detached from an entity.
type RemoveAware interface {
	OnRemove(owner *GameObject)
}

// TagComponent is an embeddable no-data component.
type TagComponent struct{}

// ToMap implements Component.
func (TagComponent) ToMap() map[string]any { return map[string]any{} }

// Active tags an entity as live within the simulation. It is attached on
// spawn and removed by Deactivate.
type Active struct {
	TagComponent
}

var componentTypes = struct {
	sync.Mutex
	ids   map[reflect.Type]ComponentID
	names []string
}{ids: make(map[reflect.Type]ComponentID)}

func idForType(rt reflect.Type) ComponentID {
	componentTypes.Lock()
	defer componentTypes.Unlock()

	if id, ok := componentTypes.ids[rt]; ok {
		return id
	}
	// Components are registered as pointer types, whose reflect name is
	// empty; the element type carries the real name.
	name := rt.Name()
	if name == "" && rt.Kind() == reflect.Pointer {
		name = rt.Elem().Name()
	}

	id := ComponentID(len(componentTypes.names))
	componentTypes.ids[rt] = id
	componentTypes.names = append(componentTypes.names, name)
	return id
}

// ID returns the component id for type T, assigning one on first use.
func ID[T Component]() ComponentID {
	return idForType(reflect.TypeFor[T]())
}

func idOf(c Component) ComponentID {
	return idForType(reflect.TypeOf(c))
}

// TypeName returns the Go type name registered for a component id.
func TypeName(id ComponentID) string {
	componentTypes.Lock()
	defer componentTypes.Unlock()

	if int(id) < len(componentTypes.names) {
		return componentTypes.names[id]
	}
	return "unknown"
}
