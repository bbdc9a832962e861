package graphcomm

import "github.com/prometheus/client_golang/prometheus"

// metrics holds the Prometheus instruments a GraphCommunicator reports
// against. A nil *metrics is safe to call through: every method is a
// no-op, so instrumentation stays entirely optional (spec §6.4).
type metrics struct {
	collectiveDuration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	m := &metrics{
		collectiveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "graybat_collective_duration_seconds",
			Help: "Duration of graph-scoped collective calls, by operation.",
		}, []string{"op"}),
	}
	reg.MustRegister(m.collectiveDuration)
	return m
}

func (m *metrics) observe(op string, seconds float64) {
	if m == nil {
		return
	}
	m.collectiveDuration.WithLabelValues(op).Observe(seconds)
}
