package service

import (
	"context"
	"time"

	"github.com/alexanderramin/jobshop/internal/events"
)

func publisherOrNoop(p events.Publisher) events.Publisher {
	if p == nil {
		return events.NoopPublisher{}
	}
	return p
}

// publishCommitted sends ev after its transaction committed. A failed
// publish is reported to the observer and never fails the use case.
func publishCommitted(ctx context.Context, pub events.Publisher, obs UseCaseObserver, ev events.Event) {
	startedAt := time.Now()
	err := pub.Publish(ctx, ev)
	if err == nil {
		return
	}
	observeUseCase(ctx, obs, "publish-event", startedAt, map[string]any{
		"event_type": string(ev.Type),
	}, err)
}
