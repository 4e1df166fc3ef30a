package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/farxc/envelopa-irregularidades/internal/metrics"
	"github.com/farxc/envelopa-irregularidades/internal/report"
	"github.com/farxc/envelopa-irregularidades/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordsSuccessfulRun(t *testing.T) {
	c, err := metrics.New()
	require.NoError(t, err)

	rep := report.Report{
		UnlinkedPayments: []store.UnlinkedPayment{{PaymentID: 1}, {PaymentID: 2}},
		OversettledCommitments: []store.OversettledCommitment{
			{CommitmentID: 1, Difference: 50},
			{CommitmentID: 2, Difference: 25.5},
		},
	}
	c.ReportGenerated(rep, 120*time.Millisecond)

	body := scrape(t, c)
	assert.Contains(t, body, `irregularities_findings{category="unlinked_payments"} 2`)
	assert.Contains(t, body, `irregularities_findings{category="oversettled_commitments"} 2`)
	assert.Contains(t, body, `irregularities_findings{category="chronology"} 0`)
	assert.Contains(t, body, "irregularities_oversettled_difference_total 75.5")
	assert.Contains(t, body, `irregularities_report_runs_total{status="success"} 1`)
	assert.NotContains(t, body, `status="failed"`)
}

func TestCollectorFailedRunKeepsPreviousFindings(t *testing.T) {
	c, err := metrics.New()
	require.NoError(t, err)

	c.ReportGenerated(report.Report{UnlinkedPayments: []store.UnlinkedPayment{{PaymentID: 1}}}, time.Second)
	c.ReportGenerated(report.Report{
		Failed:        true,
		SectionErrors: map[report.Section]string{report.SectionChronology: "boom"},
	}, time.Second)

	body := scrape(t, c)
	assert.Contains(t, body, `irregularities_report_runs_total{status="failed"} 1`)
	assert.Contains(t, body, `irregularities_report_runs_total{status="success"} 1`)
	assert.Contains(t, body, `irregularities_findings{category="unlinked_payments"} 1`)
	assert.Contains(t, body, `irregularities_report_section_errors_total{section="chronology"} 1`)
	assert.Contains(t, body, "irregularities_report_duration_seconds_count 2")
}

func TestCollectorCacheLookups(t *testing.T) {
	c, err := metrics.New()
	require.NoError(t, err)

	c.CacheLookup(false)
	c.CacheLookup(true)
	c.CacheLookup(true)

	body := scrape(t, c)
	assert.Contains(t, body, `irregularities_report_cache_lookups_total{result="hit"} 2`)
	assert.Contains(t, body, `irregularities_report_cache_lookups_total{result="miss"} 1`)
}

func scrape(t *testing.T, c *metrics.Collector) string {
	t.Helper()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}
