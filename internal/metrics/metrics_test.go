package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestResonanceCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewResonance(reg)

	m.Event(OutcomeInserted)
	m.Event(OutcomeInserted)
	m.Event(OutcomeDuplicate)
	m.PropagationFailure("resonance", "category_not_found")
	m.HexagonDegraded()
	m.Intensity("physical", 1.2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.events.WithLabelValues(OutcomeInserted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues(OutcomeDuplicate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.propagationFailures.WithLabelValues("resonance", "category_not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.hexagonDegraded))
	assert.Equal(t, 1.2, testutil.ToFloat64(m.intensity.WithLabelValues("physical")))
}

func TestNilResonanceIsSafe(t *testing.T) {
	var m *Resonance
	assert.NotPanics(t, func() {
		m.Event(OutcomeInserted)
		m.Completion(OutcomeDuplicate)
		m.PropagationFailure("x", "y")
		m.HexagonDegraded()
		m.Intensity("physical", 2)
	})
}
