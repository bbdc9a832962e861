package nameservice

import "github.com/prometheus/client_golang/prometheus"

// metrics holds the optional Prometheus instruments for a NameService.
// A nil *metrics (the zero value from New with a nil registerer) disables
// instrumentation entirely; every call site below guards on it.
type metrics struct {
	announceDuration *prometheus.HistogramVec
	directoryMiss    prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	m := &metrics{
		announceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "graybat_announce_duration_seconds",
			Help: "Duration of Name Service announce calls, by protocol variant.",
		}, []string{"variant"}),
		directoryMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "graybat_directory_miss_total",
			Help: "Count of vertex or host directory lookups that found nothing.",
		}),
	}
	reg.MustRegister(m.announceDuration, m.directoryMiss)
	return m
}

func (m *metrics) observeAnnounce(variant string, seconds float64) {
	if m == nil {
		return
	}
	m.announceDuration.WithLabelValues(variant).Observe(seconds)
}

func (m *metrics) incDirectoryMiss() {
	if m == nil {
		return
	}
	m.directoryMiss.Inc()
}
