package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"yashubustudio/slotguide/slots"
)

const namespace = "slotguide"

// Recorder exports turn outcomes as Prometheus series. It implements
// slots.Recorder and owns its registry so tests and multiple servers do not
// collide on the default one.
type Recorder struct {
	registry *prometheus.Registry

	// turns counts handled turns.
	// Labels: category, outcome (ok, failed)
	turns *prometheus.CounterVec

	// rejected counts entity values that failed lookup.
	// Labels: slot, suggested (true, false)
	rejected *prometheus.CounterVec

	// accepted counts validated entity values.
	// Labels: slot
	accepted *prometheus.CounterVec

	// missing counts required slots left without a value.
	// Labels: slot
	missing *prometheus.CounterVec

	// transitions counts pending-flag changes.
	// Labels: kind (opened, superseded, completed, reverted, fall_through)
	transitions *prometheus.CounterVec

	// httpRequests counts webhook requests.
	// Labels: route, status
	httpRequests *prometheus.CounterVec

	// httpLatency measures request handling time in seconds.
	// Labels: route
	httpLatency *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry, along with the Go and
// process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Total turns handled by category and outcome",
		}, []string{"category", "outcome"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "rejected_total",
			Help:      "Entity values rejected by the lookup",
		}, []string{"slot", "suggested"}),
		accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "accepted_total",
			Help:      "Entity values accepted for a required slot",
		}, []string{"slot"}),
		missing: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "missing_total",
			Help:      "Required slots left without a valid value",
		}, []string{"slot"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pending",
			Name:      "transitions_total",
			Help:      "Pending request transitions by kind",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route"}),
	}
	r.registry.MustRegister(
		r.turns, r.rejected, r.accepted, r.missing, r.transitions,
		r.httpRequests, r.httpLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry exposes the registry for the /metrics handler.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// RecordTurn implements slots.Recorder.
func (r *Recorder) RecordTurn(res slots.TurnResult) {
	outcome := "ok"
	if res.Failed {
		outcome = "failed"
	}
	r.turns.WithLabelValues(string(res.Category), outcome).Inc()

	if v := res.Validation; v != nil {
		for _, e := range v.Valid {
			r.accepted.WithLabelValues(e.Slot).Inc()
		}
		for _, e := range v.Errors {
			suggested := "false"
			if len(e.Suggestions) > 0 {
				suggested = "true"
			}
			r.rejected.WithLabelValues(e.Slot, suggested).Inc()
		}
		for _, slot := range v.Missing {
			r.missing.WithLabelValues(slot).Inc()
		}
	}

	tr := res.Transition
	switch {
	case tr.Superseded:
		r.transitions.WithLabelValues("superseded").Inc()
	case tr.Completed:
		r.transitions.WithLabelValues("completed").Inc()
	case tr.Revert:
		r.transitions.WithLabelValues("reverted").Inc()
	case tr.FallThrough:
		r.transitions.WithLabelValues("fall_through").Inc()
	case tr.From == slots.StateNone && tr.To == slots.StatePending:
		r.transitions.WithLabelValues("opened").Inc()
	}
}

// ObserveRequest records one HTTP request.
func (r *Recorder) ObserveRequest(route, status string, seconds float64) {
	r.httpRequests.WithLabelValues(route, status).Inc()
	r.httpLatency.WithLabelValues(route).Observe(seconds)
}
