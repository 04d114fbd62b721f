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

// AcquireReviewLock attempts to acquire the per-user review lock. It
// serializes concurrent document reviews for the same user so two admins
// cannot interleave the document write and the aggregate recomputation.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireReviewLock(ctx context.Context, userID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:review:%s", userID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseReviewLock releases the review lock for the given user.
func (s *LockStore) ReleaseReviewLock(ctx context.Context, userID string) error {
	key := fmt.Sprintf("lock:review:%s", userID)

	return s.client.Del(ctx, key).Err()
}
