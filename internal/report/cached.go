package report

import (
	"context"

	"github.com/farxc/envelopa-irregularidades/internal/cache"
	"github.com/farxc/envelopa-irregularidades/internal/logger"
)

const cachedComponent = "CachedReport"

// CacheKey is where the latest successful report is kept.
const CacheKey = "irregularities:report"

// CacheObserver is told whether each lookup was served from the cache.
type CacheObserver interface {
	CacheLookup(hit bool)
}

// CachedSource serves the latest successful report while it is fresh.
// Failed reports are never stored, so the next call runs the queries again.
type CachedSource struct {
	source   Source
	cache    cache.Cache[Report]
	logger   *logger.Logger
	observer CacheObserver
}

func NewCachedSource(source Source, c cache.Cache[Report], appLogger *logger.Logger, observer CacheObserver) *CachedSource {
	return &CachedSource{
		source:   source,
		cache:    c,
		logger:   appLogger,
		observer: observer,
	}
}

func (cs *CachedSource) Run(ctx context.Context) Report {
	if rep, ok := cs.cache.Get(ctx, CacheKey); ok {
		cs.logger.Debug(cachedComponent, "Serving cached report %s", rep.ID)
		cs.lookup(true)
		return rep
	}
	cs.lookup(false)

	rep := cs.source.Run(ctx)
	if rep.Failed {
		cs.logger.Warn(cachedComponent, "Report %s failed, not caching", rep.ID)
		return rep
	}

	cs.cache.Set(ctx, CacheKey, rep)
	return rep
}

func (cs *CachedSource) lookup(hit bool) {
	if cs.observer != nil {
		cs.observer.CacheLookup(hit)
	}
}
