package manager

import "sync"

// Event is a manager lifecycle notification: pipeline loads, evictions,
// unloads. Minimal and stable: name + model id plus optional fields.
type Event struct {
	Name    string
	ModelID string
	Fields  map[string]any
}

// EventPublisher receives lifecycle events from the manager. Implementations
// should be lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// publish forwards to the configured publisher, tolerating a nil one.
func (m *Manager) publish(e Event) {
	if m.publisher != nil {
		m.publisher.Publish(e)
	}
}

// MemoryPublisher stores events in memory; used by tests and diagnostics.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher { return &MemoryPublisher{} }

func (p *MemoryPublisher) Publish(e Event) {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
}

func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}
