package materialize

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts materializer activity.
type Metrics struct {
	Fetches  prometheus.Counter // fetches started
	Failures prometheus.Counter // fetches that failed
	MemoHits prometheus.Counter // calls answered from the success memo
	Shared   prometheus.Counter // calls that received the result of a fetch shared with other callers
}

func newMetrics() *Metrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mvnresolve",
			Subsystem: "materializer",
			Name:      name,
			Help:      help,
		})
	}
	return &Metrics{
		Fetches:  counter("fetches_total", "Artifact fetches started."),
		Failures: counter("fetch_failures_total", "Artifact fetches that failed."),
		MemoHits: counter("memo_hits_total", "Resolutions answered from memory."),
		Shared:   counter("shared_results_total", "Resolutions that joined a fetch already in flight."),
	}
}

func (m *Metrics) register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Fetches, m.Failures, m.MemoHits, m.Shared} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
