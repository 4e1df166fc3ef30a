package cache

import (
	"sync"
	"time"
)

// Cleaner is implemented by caches that can drop expired entries on demand.
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically sweeps registered in-memory caches.
type Janitor struct {
	mu       sync.Mutex
	caches   []Cleaner
	onSweep  func(removed int)
	started  bool
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewJanitor returns a janitor; onSweep, when not nil, receives the number of
// entries removed by each sweep.
func NewJanitor(onSweep func(removed int)) *Janitor {
	return &Janitor{
		onSweep: onSweep,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (j *Janitor) Register(c Cleaner) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.caches = append(j.caches, c)
}

// Sweep runs one cleanup pass over every registered cache.
func (j *Janitor) Sweep() int {
	j.mu.Lock()
	caches := append([]Cleaner(nil), j.caches...)
	j.mu.Unlock()

	removed := 0
	for _, c := range caches {
		removed += c.CleanExpired()
	}
	if j.onSweep != nil {
		j.onSweep(removed)
	}
	return removed
}

// Start sweeps every interval until Stop. A non-positive interval falls
// back to DefaultTTL.
func (j *Janitor) Start(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTTL
	}

	j.mu.Lock()
	if j.started {
		j.mu.Unlock()
		return
	}
	j.started = true
	j.mu.Unlock()

	go func() {
		defer close(j.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.Sweep()
			case <-j.stop:
				return
			}
		}
	}()
}

// Stop ends the sweep loop started by Start and waits for it to exit.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() {
		close(j.stop)

		j.mu.Lock()
		started := j.started
		j.mu.Unlock()
		if started {
			<-j.done
		}
	})
}
