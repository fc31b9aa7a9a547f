package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/anonto42/pulse/backend/pkg/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// fillTTL bounds how long a fill reservation waits for its count.
const fillTTL = 30 * time.Second

// RedisCache keeps per-user unread notification counts.
// Entries are invalidated on every write and rebuilt from the store on the next read.
type RedisCache struct {
	Client *redis.Client
	ttl    time.Duration
}

// NewRedisCache initializes a Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	ttl := cfg.Redis.UnreadTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisCache{Client: redis.NewClient(opts), ttl: ttl}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForUnread generates the Redis key holding a user's unread count.
func (c *RedisCache) KeyForUnread(username string) string {
	return fmt.Sprintf("notifications:unread:%s", username)
}

func (c *RedisCache) keyForFill(username string) string {
	return fmt.Sprintf("notifications:unread:fill:%s", username)
}

// GetUnread returns the cached count and whether it was present.
func (c *RedisCache) GetUnread(ctx context.Context, username string) (int64, bool, error) {
	val, err := c.Client.Get(ctx, c.KeyForUnread(username)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt unread count for %s: %w", username, err)
	}
	return n, true, nil
}

// ReserveUnread marks the start of a cache fill for username and returns the
// token SetUnread must present. Any invalidation in between voids the token.
func (c *RedisCache) ReserveUnread(ctx context.Context, username string) (string, error) {
	token := uuid.NewString()
	if err := c.Client.Set(ctx, c.keyForFill(username), token, fillTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// SetUnread stores count for username if token is still the current
// reservation. It reports whether the value was stored; a count read before
// an invalidation is dropped instead of being cached.
func (c *RedisCache) SetUnread(ctx context.Context, username, token string, count int64) (bool, error) {
	guard := c.keyForFill(username)
	stored := false
	err := c.Client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, guard).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		if current != token {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.KeyForUnread(username), count, c.ttl)
			pipe.Del(ctx, guard)
			return nil
		})
		if err != nil {
			return err
		}
		stored = true
		return nil
	}, guard)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored, nil
}

// InvalidateUnread drops cached counts for the given users and voids any
// fill in progress for them.
func (c *RedisCache) InvalidateUnread(ctx context.Context, usernames ...string) error {
	if len(usernames) == 0 {
		return nil
	}
	keys := make([]string, 0, 2*len(usernames))
	for _, u := range usernames {
		keys = append(keys, c.KeyForUnread(u), c.keyForFill(u))
	}
	return c.Client.Del(ctx, keys...).Err()
}
