// Package metrics exposes report runs and findings to Prometheus.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/farxc/envelopa-irregularidades/internal/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements report.Observer and report.CacheObserver on a
// private registry.
type Collector struct {
	registry *prometheus.Registry

	runsTotal             *prometheus.CounterVec
	sectionErrors         *prometheus.CounterVec
	cacheLookupsTotal     *prometheus.CounterVec
	findings              *prometheus.GaugeVec
	oversettledDifference prometheus.Gauge
	runDuration           prometheus.Histogram
}

func New() (*Collector, error) {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irregularities_report_runs_total",
			Help: "Report runs by outcome",
		},
		[]string{"status"},
	)

	c.sectionErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irregularities_report_section_errors_total",
			Help: "Sections that failed while running in isolated mode",
		},
		[]string{"section"},
	)

	c.cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "irregularities_report_cache_lookups_total",
			Help: "Report cache lookups by result",
		},
		[]string{"result"},
	)

	c.findings = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "irregularities_findings",
			Help: "Findings per category in the latest successful report",
		},
		[]string{"category"},
	)

	c.oversettledDifference = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "irregularities_oversettled_difference_total",
			Help: "Sum paid beyond what was settled in the latest successful report",
		},
	)

	c.runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "irregularities_report_duration_seconds",
			Help:    "Time spent running the report queries",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	collectors := []prometheus.Collector{
		c.runsTotal,
		c.sectionErrors,
		c.cacheLookupsTotal,
		c.findings,
		c.oversettledDifference,
		c.runDuration,
	}
	for _, col := range collectors {
		if err := c.registry.Register(col); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return c, nil
}

func (c *Collector) ReportGenerated(rep report.Report, elapsed time.Duration) {
	c.runDuration.Observe(elapsed.Seconds())

	for section := range rep.SectionErrors {
		c.sectionErrors.WithLabelValues(string(section)).Inc()
	}

	if rep.Failed {
		c.runsTotal.WithLabelValues("failed").Inc()
		return
	}
	c.runsTotal.WithLabelValues("success").Inc()

	for _, section := range report.Sections {
		c.findings.WithLabelValues(string(section)).Set(float64(rep.Count(section)))
	}
	c.oversettledDifference.Set(report.TotalDifference(rep.OversettledCommitments))
}

func (c *Collector) CacheLookup(hit bool) {
	if hit {
		c.cacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	c.cacheLookupsTotal.WithLabelValues("miss").Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
