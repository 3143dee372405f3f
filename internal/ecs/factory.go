package ecs

import "fmt"

// ComponentFactory constructs a component instance from keyword parameters.
// The content/definition layer implements this interface; the core never
// parses any file format.
type ComponentFactory interface {
	Instantiate(w *World, params map[string]any) (Component, error)
}

// ComponentFactoryFn adapts a function to the ComponentFactory interface.
type ComponentFactoryFn func(w *World, params map[string]any) (Component, error)

// Instantiate implements ComponentFactory.
func (f ComponentFactoryFn) Instantiate(w *World, params map[string]any) (Component, error) {
	return f(w, params)
}

// FactoryLibrary maps component type names to their factories. It is added to
// a world as a resource by the content layer.
type FactoryLibrary struct {
	factories map[string]ComponentFactory
}

// NewFactoryLibrary creates an empty factory library.
func NewFactoryLibrary() *FactoryLibrary {
	return &FactoryLibrary{factories: make(map[string]ComponentFactory)}
}

// Register binds a factory to a component type name, replacing any previous
// binding.
func (l *FactoryLibrary) Register(name string, factory ComponentFactory) {
	l.factories[name] = factory
}

// Instantiate constructs a component by type name.
func (l *FactoryLibrary) Instantiate(w *World, name string, params map[string]any) (Component, error) {
	factory, ok := l.factories[name]
	if !ok {
		return nil, fmt.Errorf("no factory registered for component %q", name)
	}
	return factory.Instantiate(w, params)
}
