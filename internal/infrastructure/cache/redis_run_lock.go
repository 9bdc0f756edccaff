package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	syncdomain "github.com/pharmasync/backend/internal/domain/sync"
)

// releaseScript deletes the lock key only when this instance still owns it
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// RedisRunLock implements RunLock using Redis.
// This is suitable for distributed deployments where multiple instances
// must not start overlapping sync runs.
type RedisRunLock struct {
	client *redis.Client
	key    string
	token  string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRunLock creates a new Redis-based run lock
func NewRedisRunLock(cfg RedisConfig) (*RedisRunLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRunLock{
		client: client,
		key:    "sync:run:lock",
		token:  uuid.NewString(),
	}, nil
}

// NewRedisRunLockWithClient creates a lock with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisRunLockWithClient(client *redis.Client, key string) *RedisRunLock {
	if key == "" {
		key = "sync:run:lock"
	}
	return &RedisRunLock{
		client: client,
		key:    key,
		token:  uuid.NewString(),
	}
}

// Acquire takes the lock with SETNX. The TTL bounds how long a crashed run
// can keep the lock; a live run always releases explicitly.
func (l *RedisRunLock) Acquire(ctx context.Context, ttl time.Duration) error {
	ok, err := l.client.SetNX(ctx, l.key, l.token, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !ok {
		return syncdomain.ErrSyncAlreadyRunning
	}
	return nil
}

// Release gives the lock back. Only the owning instance can release it, so an
// expired-and-reacquired lock is never deleted from under another run.
func (l *RedisRunLock) Release(ctx context.Context) error {
	if err := l.client.Eval(ctx, releaseScript, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("failed to release run lock: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (l *RedisRunLock) Close() error {
	return l.client.Close()
}

// Ensure RedisRunLock implements RunLock
var _ syncdomain.RunLock = (*RedisRunLock)(nil)
