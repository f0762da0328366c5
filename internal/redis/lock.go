package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("staff schedule lock not acquired")
)

// Locker guards the check-then-insert critical section in booking admission.
// The scope is one staff member's schedule for one date.
type Locker interface {
	WithStaffDayLock(ctx context.Context, staffID uuid.UUID, date time.Time, fn func(ctx context.Context) error) error
}

type redisStaffDayLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStaffDayLocker creates a locker that uses a per staff-and-date Redis key
func NewRedisStaffDayLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisStaffDayLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisStaffDayLocker) WithStaffDayLock(ctx context.Context, staffID uuid.UUID, date time.Time, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:staff:%s:%s", staffID.String(), date.Format("2006-01-02"))
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire staff schedule lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisStaffDayLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release staff schedule lock: %w", err)
	}
	return nil
}
