package ecs

// Event is a signal that something notable happened in the simulation. Events
// feed downstream storytelling tools; the core only routes them.
type Event struct {
	// Kind groups events for listeners ("relationship-created", "life-event").
	Kind string
	// Tick is the simulation step the event occurred on.
	Tick uint64
	// Data carries event-specific payload fields.
	Data map[string]any
}

// EventListener is a callback invoked when an event of a subscribed kind is
// dispatched.
type EventListener func(w *World, event Event)

// EventManager routes dispatched events to listeners registered per kind.
// Listeners run synchronously, in registration order.
type EventManager struct {
	listeners map[string][]EventListener
}

func newEventManager() *EventManager {
	return &EventManager{listeners: make(map[string][]EventListener)}
}

// Subscribe registers a listener for the given event kind.
func (m *EventManager) Subscribe(kind string, listener EventListener) {
	m.listeners[kind] = append(m.listeners[kind], listener)
}

// ClearListeners removes every listener for the given event kind.
func (m *EventManager) ClearListeners(kind string) {
	delete(m.listeners, kind)
}

// Dispatch fires an event, invoking subscribed listeners in order.
func (m *EventManager) Dispatch(w *World, event Event) {
	for _, listener := range m.listeners[event.Kind] {
		listener(w, event)
	}
}
