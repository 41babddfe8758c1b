package memory

import (
	"context"
	"sync"
	"time"

	"quiz-analytics/internal/domain"
)

// ReportCache is an in-memory implementation of app.ReportCache.
// A ttl of zero keeps entries until the process exits.
type ReportCache struct {
	ttl   time.Duration
	clock func() time.Time

	mu      sync.RWMutex
	reports map[string]cachedReport
}

type cachedReport struct {
	report    domain.Report
	expiresAt time.Time
}

func NewReportCache(ttl time.Duration) *ReportCache {
	return &ReportCache{
		ttl:     ttl,
		clock:   time.Now,
		reports: make(map[string]cachedReport),
	}
}

func (c *ReportCache) Get(_ context.Context, key string) (domain.Report, bool, error) {
	c.mu.RLock()
	entry, ok := c.reports[key]
	c.mu.RUnlock()
	if !ok {
		return domain.Report{}, false, nil
	}
	if c.ttl > 0 && !entry.expiresAt.After(c.clock()) {
		c.mu.Lock()
		delete(c.reports, key)
		c.mu.Unlock()
		return domain.Report{}, false, nil
	}
	return entry.report, true, nil
}

func (c *ReportCache) Set(_ context.Context, key string, report domain.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[key] = cachedReport{report: report, expiresAt: c.clock().Add(c.ttl)}
	return nil
}
