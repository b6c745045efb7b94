package events

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Emit(Event) {}

// SlogSink writes each event to a structured logger.
type SlogSink struct {
	Log *slog.Logger
}

func (s *SlogSink) Emit(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		s.Log.Error("marshal event", "event", ev.Name(), "err", err)
		return
	}
	s.Log.Info("event", "name", ev.Name(), "payload", string(payload))
}

// MemorySink captures events in order for inspection in tests.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func (m *MemorySink) Emit(ev Event) {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
}

// Events returns a copy of everything captured so far.
func (m *MemorySink) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Named returns the captured events with the given name, in order.
func (m *MemorySink) Named(name string) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, ev := range m.events {
		if ev.Name() == name {
			out = append(out, ev)
		}
	}
	return out
}

// MultiSink fans each event out to every configured sink.
type MultiSink struct {
	Sinks []Sink
}

func (m *MultiSink) Emit(ev Event) {
	for _, s := range m.Sinks {
		s.Emit(ev)
	}
}
