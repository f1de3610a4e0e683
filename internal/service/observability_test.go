package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingObserver collects use-case events for assertions.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

// find returns the last event with the given use-case name.
func (o *recordingObserver) find(name string) (UseCaseEvent, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.events) - 1; i >= 0; i-- {
		if o.events[i].Name == name {
			return o.events[i], true
		}
	}
	return UseCaseEvent{}, false
}

func TestLogUseCaseObserver_WritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "create-entry",
		Duration: 12 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"operator_id": "op1"},
	})

	out := buf.String()
	assert.Contains(t, out, "msg=service_use_case")
	assert.Contains(t, out, "use_case=create-entry")
	assert.Contains(t, out, "success=true")
	assert.Contains(t, out, "operator_id=op1")
	assert.Contains(t, out, "level=INFO")
}

func TestLogUseCaseObserver_ErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "close-entry", Err: errors.New("disk full")})

	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), `error="disk full"`)
}

func TestNewLogUseCaseObserver_NilWriter(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{nil}))

	single := &recordingObserver{}
	assert.Same(t, single, useCaseObserverOrNoop([]UseCaseObserver{nil, single}))

	a, b := &recordingObserver{}, &recordingObserver{}
	multi := useCaseObserverOrNoop([]UseCaseObserver{a, b})
	multi.ObserveUseCase(context.Background(), UseCaseEvent{Name: "x"})
	_, okA := a.find("x")
	_, okB := b.find("x")
	assert.True(t, okA)
	assert.True(t, okB)
}

func TestPrometheusObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewPrometheusObserver(reg)
	ctx := context.Background()

	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "add-break", Success: true, Duration: time.Millisecond})
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "add-break", Success: true, Duration: time.Millisecond})
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "add-break", Success: false, Err: errors.New("x")})

	assert.Equal(t, 2.0, testutil.ToFloat64(obs.total.WithLabelValues("add-break", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.total.WithLabelValues("add-break", "false")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["jobshop_use_case_duration_seconds"])
	assert.True(t, names["jobshop_use_case_total"])
}
