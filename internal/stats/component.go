package stats

import "github.com/talgya/townlife/internal/ecs"

// Provider is implemented by components that expose a stat, letting them
// self-register with the entity's Stats tracker when attached.
type Provider interface {
	StatName() string
	Stat() *Stat
}

// Stats tracks every stat attached to an entity so systems can iterate them
// without knowing the concrete component types. Entries are kept in
// registration order. Stat components register themselves through their
// add/remove hooks.
type Stats struct {
	ecs.TagComponent
	names   []string
	entries map[string]*Stat
}

// NewStats creates an empty stat tracker.
func NewStats() *Stats {
	return &Stats{entries: make(map[string]*Stat)}
}

// Add registers a named stat, replacing any previous entry with that name.
func (s *Stats) Add(name string, stat *Stat) {
	if _, ok := s.entries[name]; !ok {
		s.names = append(s.names, name)
	}
	s.entries[name] = stat
}

// Remove unregisters a named stat and reports whether it was present.
func (s *Stats) Remove(name string) bool {
	if _, ok := s.entries[name]; !ok {
		return false
	}
	delete(s.entries, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the named stat, or false when absent.
func (s *Stats) Get(name string) (*Stat, bool) {
	stat, ok := s.entries[name]
	return stat, ok
}

// Names returns the registered stat names in registration order.
func (s *Stats) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// EachStat invokes fn for every registered stat in registration order.
func (s *Stats) EachStat(fn func(name string, stat *Stat)) {
	for _, name := range s.names {
		fn(name, s.entries[name])
	}
}

// RemoveModifiersFromSource strips the source's modifiers from every
// registered stat. It reports whether anything was removed.
func (s *Stats) RemoveModifiersFromSource(source any) bool {
	removed := false
	for _, name := range s.names {
		if s.entries[name].RemoveModifiersFromSource(source) {
			removed = true
		}
	}
	return removed
}

// ToMap serializes the tracker for downstream logging.
func (s *Stats) ToMap() map[string]any {
	values := map[string]any{}
	s.EachStat(func(name string, stat *Stat) {
		values[name] = stat.Value()
	})
	return map[string]any{"stats": values}
}

// RegisterProvider wires a stat component into the owner's tracker. Meant to
// be called from the component's OnAdd hook.
func RegisterProvider(owner *ecs.GameObject, p Provider) {
	if tracker, ok := ecs.Try[*Stats](owner); ok {
		tracker.Add(p.StatName(), p.Stat())
	}
}

// UnregisterProvider removes a stat component from the owner's tracker. Meant
// to be called from the component's OnRemove hook.
func UnregisterProvider(owner *ecs.GameObject, p Provider) {
	if tracker, ok := ecs.Try[*Stats](owner); ok {
		tracker.Remove(p.StatName())
	}
}
