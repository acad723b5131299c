package movecheck

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/park285/oh-my-chess/internal/rules"
)

const DefaultVerdictTTL = time.Hour

type RedisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisCache stores verdicts under verdict:<fingerprint>. A non-positive
// ttl falls back to DefaultVerdictTTL.
func NewRedisCache(rdb redis.Cmdable, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultVerdictTTL
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) key(fp string) string { return "verdict:" + strings.TrimSpace(fp) }

func (c *RedisCache) Get(ctx context.Context, fp string) (rules.Reason, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(fp)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	r, ok := rules.ParseReason(raw)
	if !ok {
		return 0, false, fmt.Errorf("%w: %q", ErrCorruptVerdict, raw)
	}
	return r, true, nil
}

func (c *RedisCache) Put(ctx context.Context, fp string, r rules.Reason) error {
	return c.rdb.Set(ctx, c.key(fp), r.String(), c.ttl).Err()
}

// ParseRedisURL accepts redis:// and rediss:// URLs with an optional /db path.
func ParseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("redis url missing host")
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redis db %q", p)
		}
		db = n
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Username: u.User.Username(), Password: pass, DB: db}, nil
}

// DialRedis parses raw, connects and pings.
func DialRedis(ctx context.Context, raw string) (*redis.Client, error) {
	opts, err := ParseRedisURL(raw)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
