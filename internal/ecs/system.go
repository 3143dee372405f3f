package ecs

import "sort"

// System is one update routine run by the scheduler each simulated step.
//
// The scheduler drives every child through the same protocol:
// OnStartRunning, then the ShouldRun gate, then OnUpdate (only if the gate
// passed), then OnStopRunning. An error from OnUpdate aborts the step and
// propagates to the caller of World.Step.
type System interface {
	// Name identifies the system when targeting it for removal.
	Name() string
	OnStartRunning(w *World)
	ShouldRun(w *World) bool
	OnUpdate(w *World) error
	OnStopRunning(w *World)
}

// SystemBase provides default lifecycle implementations. The zero value is an
// active system that always runs.
type SystemBase struct {
	disabled bool
}

// SetActive toggles whether the system will update.
func (s *SystemBase) SetActive(value bool) { s.disabled = !value }

// OnStartRunning implements System.
func (s *SystemBase) OnStartRunning(*World) {}

// ShouldRun implements System. The default gate is "run while active".
func (s *SystemBase) ShouldRun(*World) bool { return !s.disabled }

// OnStopRunning implements System.
func (s *SystemBase) OnStopRunning(*World) {}

type childSystem struct {
	priority int
	system   System
}

// SystemGroup is a named, ordered collection of systems that runs as a unit.
// Groups may nest, forming a tree. Children run in descending priority order;
// equal priorities keep insertion order.
type SystemGroup struct {
	SystemBase
	name     string
	children []childSystem
}

// NewSystemGroup creates an empty group with the given name.
func NewSystemGroup(name string) *SystemGroup {
	return &SystemGroup{name: name}
}

// Name implements System.
func (g *SystemGroup) Name() string { return g.name }

// AddChild inserts a system with the given priority.
func (g *SystemGroup) AddChild(system System, priority int) {
	g.children = append(g.children, childSystem{priority: priority, system: system})
	sort.SliceStable(g.children, func(i, j int) bool {
		return g.children[i].priority > g.children[j].priority
	})
}

// RemoveChild removes the first direct child with the given name. It reports
// whether a child was removed.
func (g *SystemGroup) RemoveChild(name string) bool {
	for i, child := range g.children {
		if child.system.Name() == name {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return true
		}
	}
	return false
}

// Children returns the group's children in run order.
func (g *SystemGroup) Children() []System {
	out := make([]System, 0, len(g.children))
	for _, child := range g.children {
		out = append(out, child.system)
	}
	return out
}

// OnUpdate runs every child through the scheduling protocol, recursing into
// nested groups. The first error aborts the pass.
func (g *SystemGroup) OnUpdate(w *World) error {
	for _, child := range g.children {
		sys := child.system
		sys.OnStartRunning(w)
		var err error
		if sys.ShouldRun(w) {
			err = sys.OnUpdate(w)
		}
		sys.OnStopRunning(w)
		if err != nil {
			return err
		}
	}
	return nil
}

// SystemManager is the root of the scheduler tree for one world.
type SystemManager struct {
	SystemGroup
	world *World
}

func newSystemManager(world *World) *SystemManager {
	return &SystemManager{SystemGroup: SystemGroup{name: "root"}, world: world}
}

// AddSystem mounts a system at the root of the tree.
func (m *SystemManager) AddSystem(system System, priority int) {
	m.AddChild(system, priority)
}

// AddSystemTo mounts a system inside the named group, located by a
// depth-first walk of the tree. It fails with SystemNotFoundError when no
// group matches.
func (m *SystemManager) AddSystemTo(groupName string, system System, priority int) error {
	if group := m.findGroup(groupName); group != nil {
		group.AddChild(system, priority)
		return nil
	}
	return SystemNotFoundError{System: groupName}
}

// GetSystem locates a system by name anywhere in the tree.
func (m *SystemManager) GetSystem(name string) (System, error) {
	stack := []System{&m.SystemGroup}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current.Name() == name {
			return current, nil
		}
		if group, ok := current.(interface{ Children() []System }); ok {
			stack = append(stack, group.Children()...)
		}
	}
	return nil, SystemNotFoundError{System: name}
}

// RemoveSystem removes the first system with the given name found by a
// depth-first walk. Removal is a silent no-op when nothing matches.
func (m *SystemManager) RemoveSystem(name string) {
	type frame struct {
		group *SystemGroup
	}
	stack := []frame{{group: &m.SystemGroup}}
	for len(stack) > 0 {
		current := stack[len(stack)-1].group
		stack = stack[:len(stack)-1]

		if current.RemoveChild(name) {
			return
		}
		for _, child := range current.children {
			if group, ok := child.system.(*SystemGroup); ok {
				stack = append(stack, frame{group: group})
			}
		}
	}
}

// Update runs the whole scheduler tree once.
func (m *SystemManager) Update() error {
	return m.SystemGroup.OnUpdate(m.world)
}

func (m *SystemManager) findGroup(name string) *SystemGroup {
	stack := []*SystemGroup{&m.SystemGroup}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current.name == name {
			return current
		}
		for _, child := range current.children {
			if group, ok := child.system.(*SystemGroup); ok {
				stack = append(stack, group)
			}
		}
	}
	return nil
}
