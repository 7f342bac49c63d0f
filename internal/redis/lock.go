package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireTruckLock attempts to acquire the assignment lock for a truck.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireTruckLock(ctx context.Context, truckID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:truck:%s", truckID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseTruckLock releases the assignment lock for a truck.
func (s *LockStore) ReleaseTruckLock(ctx context.Context, truckID string) error {
	key := fmt.Sprintf("lock:truck:%s", truckID)

	return s.client.Del(ctx, key).Err()
}
