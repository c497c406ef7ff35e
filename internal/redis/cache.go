package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore caches report payloads in Redis. Reports aggregate the
// whole engine state, so they are cached briefly and invalidated after
// every mutation.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// ReportCacheTTL bounds staleness when an invalidation is missed.
const ReportCacheTTL = 30 * time.Second

const reportCachePrefix = "cache:report:"

// Report cache names.
const (
	ReportFleet     = "fleet"
	ReportRentals   = "rentals"
	ReportRevenue   = "revenue"
	ReportCustomers = "customers"
)

// GetReport retrieves a cached report into dest. Returns false on a
// cache miss.
func (s *CacheStore) GetReport(ctx context.Context, name string, dest any) (bool, error) {
	data, err := s.client.Get(ctx, reportCachePrefix+name).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil // Cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetReport stores a report in cache.
func (s *CacheStore) SetReport(ctx context.Context, name string, report any) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, reportCachePrefix+name, data, ReportCacheTTL).Err()
}

// InvalidateReports removes every cached report. Called after any
// mutating engine operation.
func (s *CacheStore) InvalidateReports(ctx context.Context) error {
	keys := []string{
		reportCachePrefix + ReportFleet,
		reportCachePrefix + ReportRentals,
		reportCachePrefix + ReportRevenue,
		reportCachePrefix + ReportCustomers,
	}
	return s.client.Del(ctx, keys...).Err()
}
