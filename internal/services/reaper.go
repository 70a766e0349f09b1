package services

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const DefaultSessionIdleTTL = 30 * time.Minute

// IdleEvicter is implemented by repository.SessionStore.
type IdleEvicter interface {
	EvictIdle(cutoff time.Time) int
}

// SessionReaper drops analyzer and chat sessions nobody has touched for
// idleTTL, checking every interval.
type SessionReaper struct {
	stores   map[string]IdleEvicter
	idleTTL  time.Duration
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
}

func NewSessionReaper(stores map[string]IdleEvicter, idleTTL time.Duration, logger *zap.Logger) *SessionReaper {
	interval := idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	return &SessionReaper{
		stores:   stores,
		idleTTL:  idleTTL,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (r *SessionReaper) Start() {
	r.started.Store(true)
	go r.loop()
	r.logger.Info("session reaper started", zap.Duration("idle_ttl", r.idleTTL))
}

// Stop ends the loop and waits for it to exit. Safe to call more than once.
func (r *SessionReaper) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
		if r.started.Load() {
			<-r.done
		}
	})
}

func (r *SessionReaper) loop() {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.Sweep(time.Now())
		}
	}
}

// Sweep evicts every session last seen before now minus the idle TTL.
func (r *SessionReaper) Sweep(now time.Time) int {
	cutoff := now.Add(-r.idleTTL)
	total := 0
	for name, store := range r.stores {
		n := store.EvictIdle(cutoff)
		if n > 0 {
			r.logger.Info("evicted idle sessions", zap.String("kind", name), zap.Int("count", n))
		}
		total += n
	}
	return total
}
