package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "irctrack"

// Metrics holds the collectors shared by the data-access layer and the
// tracking pipeline. Each instance owns a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	CacheRequests      *prometheus.CounterVec
	CacheInvalidations *prometheus.CounterVec
	RemoteErrors       *prometheus.CounterVec
	DecodeIssues       *prometheus.CounterVec
	Refreshes          prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Row reads served by the cache, by table and result (hit|miss).",
		}, []string{"table", "result"}),
		CacheInvalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_invalidations_total",
			Help:      "Table-wide cache invalidations caused by writes.",
		}, []string{"table"}),
		RemoteErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_errors_total",
			Help:      "Remote store failures by table and kind.",
		}, []string{"table", "kind"}),
		DecodeIssues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_issues_total",
			Help:      "Malformed fields replaced by defaults while decoding rows.",
		}, []string{"table", "field"}),
		Refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Full cache purges before report generation.",
		}),
	}
	m.Registry.MustRegister(m.CacheRequests, m.CacheInvalidations, m.RemoteErrors, m.DecodeIssues, m.Refreshes)
	return m
}

// WriteText writes the registry in the Prometheus text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.Registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("write metric %s: %w", family.GetName(), err)
		}
	}
	return nil
}
