// Package metrics holds the domain counters of the resonance engine.
// HTTP request metrics come from fiberprometheus; both end up on the
// same /metrics endpoint when registered with the default registerer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels
const (
	OutcomeInserted  = "inserted"
	OutcomeDuplicate = "duplicate"
)

// Resonance holds the engine counters. A nil *Resonance is valid and
// records nothing.
type Resonance struct {
	events              *prometheus.CounterVec
	completions         *prometheus.CounterVec
	propagationFailures *prometheus.CounterVec
	hexagonDegraded     prometheus.Counter
	intensity           *prometheus.GaugeVec
}

// NewResonance creates and registers the counters with reg.
func NewResonance(reg prometheus.Registerer) *Resonance {
	m := &Resonance{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resonance",
			Name:      "events_total",
			Help:      "Resonance record attempts by outcome.",
		}, []string{"outcome"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resonance",
			Name:      "completions_total",
			Help:      "Completion check-ins by outcome.",
		}, []string{"outcome"}),
		propagationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resonance",
			Name:      "propagation_failures_total",
			Help:      "Completion subscribers that failed and were rolled back to their savepoint.",
		}, []string{"subscriber", "reason"}),
		hexagonDegraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "resonance",
			Name:      "hexagon_degraded_total",
			Help:      "Hexagon queries answered with the zero-filled fallback.",
		}),
		intensity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "resonance",
			Name:      "axis_intensity",
			Help:      "Last written intensity per axis.",
		}, []string{"axis"}),
	}
	reg.MustRegister(m.events, m.completions, m.propagationFailures, m.hexagonDegraded, m.intensity)
	return m
}

func (m *Resonance) Event(outcome string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(outcome).Inc()
}

func (m *Resonance) Completion(outcome string) {
	if m == nil {
		return
	}
	m.completions.WithLabelValues(outcome).Inc()
}

func (m *Resonance) PropagationFailure(subscriber, reason string) {
	if m == nil {
		return
	}
	m.propagationFailures.WithLabelValues(subscriber, reason).Inc()
}

func (m *Resonance) HexagonDegraded() {
	if m == nil {
		return
	}
	m.hexagonDegraded.Inc()
}

func (m *Resonance) Intensity(axis string, value float64) {
	if m == nil {
		return
	}
	m.intensity.WithLabelValues(axis).Set(value)
}
