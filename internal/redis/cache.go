package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// LoadCacheTTL is short: load status changes during assignment and transit.
const LoadCacheTTL = 10 * time.Second

const loadCachePrefix = "cache:load:"

// CachedLoad represents a cached load entity.
type CachedLoad struct {
	ID              string `json:"id"`
	ShipperOrgID    string `json:"shipper_org_id"`
	Status          string `json:"status"`
	AssignedTruckID string `json:"assigned_truck_id"`
	TrackingEnabled bool   `json:"tracking_enabled"`
}

// GetLoad retrieves a load from cache. Returns nil on a cache miss.
func (s *CacheStore) GetLoad(ctx context.Context, loadID string) (*CachedLoad, error) {
	key := loadCachePrefix + loadID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var load CachedLoad
	if err := json.Unmarshal(data, &load); err != nil {
		return nil, err
	}
	return &load, nil
}

// SetLoad stores a load in cache.
func (s *CacheStore) SetLoad(ctx context.Context, load *CachedLoad) error {
	key := loadCachePrefix + load.ID
	data, err := json.Marshal(load)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, LoadCacheTTL).Err()
}

// InvalidateLoad removes a load from cache.
func (s *CacheStore) InvalidateLoad(ctx context.Context, loadID string) error {
	key := loadCachePrefix + loadID
	return s.client.Del(ctx, key).Err()
}
