// Package cache holds rendered artifacts (chart images) keyed by the record
// set generation they were derived from.
package cache

import (
	"context"
	"fmt"
	"time"

	"spendlog/internal/log"
)

// Cache is the contract the HTTP layer depends on.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Size() int
}

// Cleaner is implemented by caches that can drop expired entries.
type Cleaner interface {
	CleanExpired() int
}

// ChartKey identifies a rendered chart. The generation changes whenever the
// record set is replaced, so stale images are never served. The day is part
// of the key because week and month windows move with the calendar.
func ChartKey(generation uint64, filter, day string) string {
	return fmt.Sprintf("chart:%d:%s:%s", generation, filter, day)
}

// Manager periodically sweeps registered caches.
type Manager struct {
	caches []Cleaner
	logger *log.Logger
}

func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default(log.ComponentCache)
	}
	return &Manager{logger: logger.WithComponent(log.ComponentCache)}
}

// Register adds a cache to the sweep. Not safe to call once Run has started.
func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// Sweep cleans every registered cache once and returns the number of
// entries removed.
func (m *Manager) Sweep() int {
	total := 0
	for _, c := range m.caches {
		total += c.CleanExpired()
	}
	return total
}

// Run sweeps on every tick until ctx is done. It always returns nil so it
// can run inside an errgroup.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug("Swept expired cache entries", log.FieldCount, n)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
