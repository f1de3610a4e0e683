package service

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusObserver records use-case latency and outcome counts.
type PrometheusObserver struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

// NewPrometheusObserver registers the use-case collectors on reg.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	o := &PrometheusObserver{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jobshop_use_case_duration_seconds",
			Help:    "Duration of store and service use cases.",
			Buckets: prometheus.DefBuckets,
		}, []string{"use_case", "success"}),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobshop_use_case_total",
			Help: "Total number of use case executions by outcome.",
		}, []string{"use_case", "success"}),
	}
	reg.MustRegister(o.duration, o.total)
	return o
}

func (o *PrometheusObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	success := strconv.FormatBool(event.Success)
	o.duration.WithLabelValues(event.Name, success).Observe(event.Duration.Seconds())
	o.total.WithLabelValues(event.Name, success).Inc()
}
