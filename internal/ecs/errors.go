package ecs

import "fmt"

// GameObjectNotFoundError is returned when looking up an entity id that does
// not exist or has already been flushed.
type GameObjectNotFoundError struct {
	UID uint32
}

func (e GameObjectNotFoundError) Error() string {
	return fmt.Sprintf("gameobject %d not found", e.UID)
}

// ComponentNotFoundError is returned by throwing component lookups. Callers
// that expect absence should use the Try variants instead.
type ComponentNotFoundError struct {
	Component string
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component %s not found", e.Component)
}

// ResourceNotFoundError is returned when getting or removing a shared
// resource that was never added.
type ResourceNotFoundError struct {
	Resource string
}

func (e ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource %s not found", e.Resource)
}

// SystemNotFoundError is returned when targeting a system group that is not
// mounted anywhere in the scheduler tree.
type SystemNotFoundError struct {
	System string
}

func (e SystemNotFoundError) Error() string {
	return fmt.Sprintf("system %s not found", e.System)
}
