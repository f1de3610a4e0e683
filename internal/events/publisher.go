// Package events publishes shop-floor changes (clock-ins, breaks, clock-outs,
// job status updates) for live dashboards and downstream consumers.
package events

import (
	"context"
	"time"
)

type Type string

const (
	EntryOpened      Type = "entry.opened"
	EntryBreakAdded  Type = "entry.break_added"
	EntryClosed      Type = "entry.closed"
	JobStatusChanged Type = "job.status_changed"
)

// Event is the payload published for every committed store change.
type Event struct {
	Version    string    `json:"version"`
	Type       Type      `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	OperatorID string    `json:"operatorId,omitempty"`
	JobID      string    `json:"jobId,omitempty"`
	EntryID    string    `json:"entryId,omitempty"`
	JobStatus  string    `json:"jobStatus,omitempty"`
	Minutes    int       `json:"minutes,omitempty"`
	Score      int       `json:"score,omitempty"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NoopPublisher discards every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
