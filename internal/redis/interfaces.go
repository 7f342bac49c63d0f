package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireTruckLock(ctx context.Context, truckID string, ttl time.Duration) (bool, error)
	ReleaseTruckLock(ctx context.Context, truckID string) error
}

// CacheStoreInterface defines the interface for load caching.
type CacheStoreInterface interface {
	GetLoad(ctx context.Context, loadID string) (*CachedLoad, error)
	SetLoad(ctx context.Context, load *CachedLoad) error
	InvalidateLoad(ctx context.Context, loadID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)
