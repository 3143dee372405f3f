package ecs

import "reflect"

// ResourceManager holds process-wide singletons (the random source, the
// simulated clock, content libraries) addressed by their Go type.
type ResourceManager struct {
	resources map[reflect.Type]any
}

func newResourceManager() *ResourceManager {
	return &ResourceManager{resources: make(map[reflect.Type]any)}
}

// Add registers a resource, replacing any existing resource of the same type.
func (m *ResourceManager) Add(resource any) {
	m.resources[reflect.TypeOf(resource)] = resource
}

// GetResource returns the resource of type T, failing with
// ResourceNotFoundError when absent.
func GetResource[T any](w *World) (T, error) {
	rt := reflect.TypeFor[T]()
	if r, ok := w.resources.resources[rt]; ok {
		return r.(T), nil
	}
	var zero T
	return zero, ResourceNotFoundError{Resource: rt.String()}
}

// TryResource returns the resource of type T, or false when absent.
func TryResource[T any](w *World) (T, bool) {
	if r, ok := w.resources.resources[reflect.TypeFor[T]()]; ok {
		return r.(T), true
	}
	var zero T
	return zero, false
}

// HasResource reports whether a resource of type T has been added.
func HasResource[T any](w *World) bool {
	_, ok := w.resources.resources[reflect.TypeFor[T]()]
	return ok
}

// RemoveResource deletes the resource of type T, failing with
// ResourceNotFoundError when absent.
func RemoveResource[T any](w *World) error {
	rt := reflect.TypeFor[T]()
	if _, ok := w.resources.resources[rt]; !ok {
		return ResourceNotFoundError{Resource: rt.String()}
	}
	delete(w.resources.resources, rt)
	return nil
}
