package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Failed-login lockout keys. A nil redis client disables the whole mechanism.

func lockoutKey(action, subject string) string {
	return fmt.Sprintf("lockout:%s:%s", action, subject)
}

func IsLockedOut(ctx context.Context, rdb *redis.Client, action, subject string) (bool, error) {
	if rdb == nil {
		return false, nil
	}

	n, err := rdb.Exists(ctx, lockoutKey(action, subject)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check lockout in redis: %w", err)
	}

	return n > 0, nil
}

func LockOut(ctx context.Context, rdb *redis.Client, action, subject string, ttl time.Duration) error {
	if rdb == nil || ttl <= 0 {
		return nil
	}

	return rdb.SetNX(ctx, lockoutKey(action, subject), "locked", ttl).Err()
}

func ClearLockOut(ctx context.Context, rdb *redis.Client, action, subject string) error {
	if rdb == nil {
		return nil
	}

	return rdb.Del(ctx, lockoutKey(action, subject)).Err()
}
