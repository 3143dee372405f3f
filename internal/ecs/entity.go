package ecs

// GameObject is a reference to an entity within the world. It wraps a unique
// integer identity and provides access to attached components, metadata, and
// the parent/child hierarchy. GameObjects have no inherent behavior.
type GameObject struct {
	uid      uint32
	name     string
	world    *World
	metadata map[string]any

	// Parent is the entity this one is a child of, nil at the root.
	Parent *GameObject
	// Children are entities below this one in the hierarchy.
	Children []*GameObject

	componentIDs []ComponentID // in order of addition
}

// UID returns the entity's unique id.
func (g *GameObject) UID() uint32 { return g.uid }

// Name returns the entity's display name.
func (g *GameObject) Name() string { return g.name }

// SetName updates the entity's display name.
func (g *GameObject) SetName(name string) { g.name = name }

// World returns the world the entity belongs to.
func (g *GameObject) World() *World { return g.world }

// Metadata returns the entity's free-form metadata map.
func (g *GameObject) Metadata() map[string]any { return g.metadata }

// Exists reports whether the entity is still registered with the world.
func (g *GameObject) Exists() bool {
	return g.world.gameobjects.Has(g.uid)
}

// IsActive reports whether the entity carries the Active tag.
func (g *GameObject) IsActive() bool {
	return g.HasComponent(ID[*Active]())
}

// Activate tags the entity and its children as active.
func (g *GameObject) Activate() {
	g.AddComponent(&Active{})
	for _, child := range g.Children {
		child.Activate()
	}
}

// Deactivate removes the Active tag from the entity and its children.
func (g *GameObject) Deactivate() {
	g.RemoveComponent(ID[*Active]())
	for _, child := range g.Children {
		child.Deactivate()
	}
}

// AddComponent attaches a component, replacing any existing component of the
// same type. Attachment takes effect immediately, unlike entity destruction.
func (g *GameObject) AddComponent(c Component) {
	id := idOf(c)
	store := g.world.components.store(id)

	if old, ok := store.get(g.uid); ok {
		if hook, ok := old.(RemoveAware); ok {
			hook.OnRemove(g)
		}
	} else {
		g.componentIDs = append(g.componentIDs, id)
	}

	store.set(g.uid, c)

	if hook, ok := c.(AddAware); ok {
		hook.OnAdd(g)
	}
}

// RemoveComponent detaches the component with the given type id, invoking its
// remove hook first. It reports whether a component was removed.
func (g *GameObject) RemoveComponent(id ComponentID) bool {
	store, ok := g.world.components.tryStore(id)
	if !ok {
		return false
	}
	c, ok := store.get(g.uid)
	if !ok {
		return false
	}

	if hook, ok := c.(RemoveAware); ok {
		hook.OnRemove(g)
	}

	store.remove(g.uid)
	for i, cid := range g.componentIDs {
		if cid == id {
			g.componentIDs = append(g.componentIDs[:i], g.componentIDs[i+1:]...)
			break
		}
	}
	return true
}

// GetComponent returns the component with the given type id. Absence is a
// programming error surfaced as a ComponentNotFoundError.
func (g *GameObject) GetComponent(id ComponentID) (Component, error) {
	if st, ok := g.world.components.tryStore(id); ok {
		if c, ok := st.get(g.uid); ok {
			return c, nil
		}
	}
	return nil, ComponentNotFoundError{Component: TypeName(id)}
}

// TryComponent returns the component with the given type id, or false when
// absent. It never fails.
func (g *GameObject) TryComponent(id ComponentID) (Component, bool) {
	st, ok := g.world.components.tryStore(id)
	if !ok {
		return nil, false
	}
	return st.get(g.uid)
}

// HasComponent reports whether a component of the given type is attached.
func (g *GameObject) HasComponent(id ComponentID) bool {
	st, ok := g.world.components.tryStore(id)
	return ok && st.has(g.uid)
}

// HasComponents reports whether every listed component type is attached.
func (g *GameObject) HasComponents(ids ...ComponentID) bool {
	for _, id := range ids {
		if !g.HasComponent(id) {
			return false
		}
	}
	return true
}

// ComponentIDs returns the ids of attached components in order of addition.
func (g *GameObject) ComponentIDs() []ComponentID {
	out := make([]ComponentID, len(g.componentIDs))
	copy(out, g.componentIDs)
	return out
}

// AddChild links a child entity, re-parenting it if needed.
func (g *GameObject) AddChild(child *GameObject) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = g
	g.Children = append(g.Children, child)
}

// RemoveChild unlinks a child entity.
func (g *GameObject) RemoveChild(child *GameObject) {
	for i, c := range g.Children {
		if c == child {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			break
		}
	}
	child.Parent = nil
}

// Destroy enqueues the entity for destruction. Components are detached
// immediately so cleanup hooks run, but the identity record survives until
// the next step flush, keeping in-flight iteration valid.
func (g *GameObject) Destroy() {
	g.world.gameobjects.Destroy(g)
}

// ToMap recursively serializes the entity and its components.
func (g *GameObject) ToMap() map[string]any {
	parent := -1
	if g.Parent != nil {
		parent = int(g.Parent.uid)
	}
	children := make([]uint32, 0, len(g.Children))
	for _, c := range g.Children {
		children = append(children, c.uid)
	}
	components := map[string]any{}
	for _, id := range g.componentIDs {
		if c, ok := g.TryComponent(id); ok {
			components[TypeName(id)] = c.ToMap()
		}
	}
	return map[string]any{
		"id":         g.uid,
		"name":       g.name,
		"parent":     parent,
		"children":   children,
		"components": components,
	}
}

// Get returns the component of type T attached to the entity.
func Get[T Component](g *GameObject) (T, error) {
	c, err := g.GetComponent(ID[T]())
	if err != nil {
		var zero T
		return zero, err
	}
	return c.(T), nil
}

// Try returns the component of type T, or false when absent.
func Try[T Component](g *GameObject) (T, bool) {
	c, ok := g.TryComponent(ID[T]())
	if !ok {
		var zero T
		return zero, false
	}
	return c.(T), true
}

// Has reports whether a component of type T is attached.
func Has[T Component](g *GameObject) bool {
	return g.HasComponent(ID[T]())
}
