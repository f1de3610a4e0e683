package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/jobshop/internal/events"
)

// RecordingPublisher keeps every published event. When Err is set, Publish
// records nothing and returns Err.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	Err    error
}

func (p *RecordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *RecordingPublisher) Close() error { return nil }

// Events returns a copy of the recorded events.
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// Types returns the recorded event types in publish order.
func (p *RecordingPublisher) Types() []events.Type {
	var types []events.Type
	for _, ev := range p.Events() {
		types = append(types, ev.Type)
	}
	return types
}
