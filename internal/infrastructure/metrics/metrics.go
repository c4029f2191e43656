package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aarynsmith/exercisetracker/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "exercisetracker"

// Metrics holds all Prometheus metrics for the tracker service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RateLimited     prometheus.Counter
	UsersCreated    prometheus.Counter
	ExercisesLogged prometheus.Counter

	gatherer prometheus.Gatherer
}

// New registers the tracker metrics, plus Go runtime and process
// collectors, on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg *prometheus.Registry) *Metrics {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter.",
		}),
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "users_created_total",
			Help:      "Total number of registered users.",
		}),
		ExercisesLogged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "exercises_logged_total",
			Help:      "Total number of exercise log entries appended.",
		}),
		gatherer: reg,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(seconds)
}

type countingPublisher struct {
	next    domain.ActivityPublisher
	metrics *Metrics
}

// CountingPublisher counts every activity event before handing it to next.
func (m *Metrics) CountingPublisher(next domain.ActivityPublisher) domain.ActivityPublisher {
	if next == nil {
		next = domain.NopPublisher()
	}
	return &countingPublisher{next: next, metrics: m}
}

func (p *countingPublisher) PublishUserCreated(ctx context.Context, user domain.UserIdentity) error {
	p.metrics.UsersCreated.Inc()
	return p.next.PublishUserCreated(ctx, user)
}

func (p *countingPublisher) PublishExerciseLogged(ctx context.Context, exercise domain.LoggedExercise) error {
	p.metrics.ExercisesLogged.Inc()
	return p.next.PublishExerciseLogged(ctx, exercise)
}
