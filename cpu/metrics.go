package cpu

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	taskUpload  = "upload"
	taskExecute = "execute"
	taskRead    = "read"
	taskSync    = "sync"
)

type metrics struct {
	tasks      *prometheus.CounterVec
	uploaded   prometheus.Counter
	read       prometheus.Counter
	violations prometheus.Counter
	faults     prometheus.Counter
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "compute",
			Subsystem: "cpu",
			Name:      "tasks_total",
			Help:      "Number of stream tasks executed, by kind.",
		}, []string{"kind"}),
		uploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "compute",
			Subsystem: "cpu",
			Name:      "uploaded_bytes_total",
			Help:      "Number of bytes uploaded by Create.",
		}),
		read: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "compute",
			Subsystem: "cpu",
			Name:      "read_bytes_total",
			Help:      "Number of bytes returned by Read.",
		}),
		violations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "compute",
			Subsystem: "cpu",
			Name:      "bounds_violations_total",
			Help:      "Number of checked kernel executions that attempted an out-of-bounds access.",
		}),
		faults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "compute",
			Subsystem: "cpu",
			Name:      "kernel_faults_total",
			Help:      "Number of kernel executions that panicked.",
		}),
	}

	if registerer == nil {
		return m, nil
	}

	for _, collector := range m.collectors() {
		if err := registerer.Register(collector); err != nil {
			return nil, errors.Wrap(err, "failed to register cpu server metrics")
		}
	}

	return m, nil
}

func (m *metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.tasks, m.uploaded, m.read, m.violations, m.faults}
}

func (m *metrics) unregister(registerer prometheus.Registerer) {
	if registerer == nil {
		return
	}

	for _, collector := range m.collectors() {
		registerer.Unregister(collector)
	}
}
