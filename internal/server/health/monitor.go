// Package health tracks whether the server's dependencies are reachable.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/postmedia/internal/logging"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Monitor pings the database on an interval and reports status changes to
// its subscribers.
type Monitor struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	log      logging.Logger

	mu          sync.RWMutex
	healthy     bool
	checked     bool
	subscribers []func(serving bool)
}

func NewMonitor(p Pinger, interval time.Duration, log logging.Logger) *Monitor {
	timeout := interval / 2
	if timeout <= 0 || timeout > 5*time.Second {
		timeout = 5 * time.Second
	}
	return &Monitor{
		pinger:   p,
		interval: interval,
		timeout:  timeout,
		log:      log.With("module", "health"),
	}
}

// Subscribe registers fn to be called with the new status on every change,
// including the first check.
func (m *Monitor) Subscribe(fn func(serving bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// Healthy reports the result of the latest check. It is false until the
// first check completes.
func (m *Monitor) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy
}

// Check pings once and records the result.
func (m *Monitor) Check(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.pinger.PingContext(pingCtx)
	serving := err == nil

	m.mu.Lock()
	changed := !m.checked || m.healthy != serving
	m.checked = true
	m.healthy = serving
	subs := append([]func(bool){}, m.subscribers...)
	m.mu.Unlock()

	if changed {
		if serving {
			m.log.Info(ctx, "database reachable")
		} else {
			m.log.Error(ctx, "database unreachable", "error", err)
		}
		for _, fn := range subs {
			fn(serving)
		}
	}
	return serving
}

// Run checks immediately and then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}
