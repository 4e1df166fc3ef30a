package report_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/farxc/envelopa-irregularidades/internal/cache"
	"github.com/farxc/envelopa-irregularidades/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	runs    int
	failing bool
}

func (s *countingSource) Run(context.Context) report.Report {
	s.runs++
	rep := report.Report{ID: strconv.Itoa(s.runs)}
	if s.failing {
		rep.Failed = true
		rep.Error = "data source failure"
	}
	return rep
}

type lookups struct{ hits, misses int }

func (l *lookups) CacheLookup(hit bool) {
	if hit {
		l.hits++
		return
	}
	l.misses++
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func TestCachedSourceServesFreshReport(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	src := &countingSource{}
	obs := &lookups{}
	cs := report.NewCachedSource(src, cache.NewTTLCacheWithClock[report.Report](10*time.Minute, clk.Now), quietLogger(), obs)

	first := cs.Run(ctx)
	clk.t = clk.t.Add(5 * time.Minute)
	second := cs.Run(ctx)

	assert.Equal(t, 1, src.runs)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, lookups{hits: 1, misses: 1}, *obs)
}

func TestCachedSourceRecomputesAfterExpiry(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	src := &countingSource{}
	cs := report.NewCachedSource(src, cache.NewTTLCacheWithClock[report.Report](10*time.Minute, clk.Now), quietLogger(), nil)

	first := cs.Run(ctx)
	clk.t = clk.t.Add(10 * time.Minute)
	second := cs.Run(ctx)

	assert.Equal(t, 2, src.runs)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCachedSourceDoesNotCacheFailedReports(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{failing: true}
	cs := report.NewCachedSource(src, cache.NewTTLCache[report.Report](time.Minute), quietLogger(), nil)

	require.True(t, cs.Run(ctx).Failed)
	require.True(t, cs.Run(ctx).Failed)
	assert.Equal(t, 2, src.runs)

	src.failing = false
	assert.False(t, cs.Run(ctx).Failed)
	assert.False(t, cs.Run(ctx).Failed)
	assert.Equal(t, 3, src.runs)
}
