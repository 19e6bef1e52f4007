package cache

import (
	"context"
	"fmt"
	"time"

	"insight_server/core/port/out"

	"github.com/google/uuid"
)

// ReportCache implements out.ReportCache on top of RedisCache. Keys follow
// the "report:<dataset>:<kind>" convention so one dataset's reports can be
// invalidated with a single pattern delete.
type ReportCache struct {
	cache *RedisCache
}

var _ out.ReportCache = (*ReportCache)(nil)

// NewReportCache creates the report cache.
func NewReportCache(cache *RedisCache) *ReportCache {
	return &ReportCache{cache: cache}
}

// GetReport loads a cached report into dest. A miss is (false, nil).
func (c *ReportCache) GetReport(ctx context.Context, key string, dest any) (bool, error) {
	return c.cache.GetJSON(ctx, key, dest)
}

// SetReport stores one report with the given TTL.
func (c *ReportCache) SetReport(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.cache.SetJSON(ctx, key, value, ttl)
}

// InvalidateDataset drops every cached report of one dataset.
func (c *ReportCache) InvalidateDataset(ctx context.Context, datasetID uuid.UUID) error {
	return c.cache.DeleteByPattern(ctx, fmt.Sprintf("report:%s:*", datasetID))
}
