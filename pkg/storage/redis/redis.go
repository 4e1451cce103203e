package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/artem13815/careerdesk/pkg/storage"
)

const defaultPrefix = "careerdesk:scope:"

// setItem writes one field unless the scope total (keys + values, the
// replaced field excluded) would exceed ARGV[3]. Returns 0 when over quota.
var setItem = goredis.NewScript(`
local quota = tonumber(ARGV[3])
if quota > 0 then
  local size = #ARGV[1] + #ARGV[2]
  local all = redis.call('HGETALL', KEYS[1])
  for i = 1, #all, 2 do
    if all[i] ~= ARGV[1] then
      size = size + #all[i] + #all[i + 1]
    end
  end
  if size > quota then
    return 0
  end
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
local ttl = tonumber(ARGV[4])
if ttl > 0 then
  redis.call('PEXPIRE', KEYS[1], ttl)
end
return 1
`)

// Backend stores each scope as one Redis hash. The hash expiry is refreshed
// on every write so an abandoned session disappears after ttl.
type Backend struct {
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
	quota  int
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// New wraps a connected client. quota bounds the total bytes (keys + values)
// of one scope, as the memory backend does (0 = unlimited).
func New(rdb goredis.UniversalClient, ttl time.Duration, quota int) *Backend {
	return &Backend{rdb: rdb, prefix: defaultPrefix, ttl: ttl, quota: quota}
}

// Scope implements storage.Backend.
func (b *Backend) Scope(id string) storage.Store {
	return &store{b: b, key: b.prefix + id}
}

// Name and Check let the backend act as a readiness checker.
func (b *Backend) Name() string { return "redis" }

func (b *Backend) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return b.rdb.Ping(ctx).Err()
}

type store struct {
	b   *Backend
	key string
}

func (s *store) SetItem(ctx context.Context, field, value string) error {
	if s.b.quota > 0 && len(field)+len(value) > s.b.quota {
		return fmt.Errorf("set %q: %w", field, storage.ErrQuotaExceeded)
	}
	ok, err := setItem.Run(ctx, s.b.rdb, []string{s.key}, field, value, s.b.quota, s.b.ttl.Milliseconds()).Int()
	if err != nil {
		return unavailable("set", err)
	}
	if ok == 0 {
		return fmt.Errorf("set %q: %w", field, storage.ErrQuotaExceeded)
	}
	return nil
}

func (s *store) GetItem(ctx context.Context, field string) (string, bool, error) {
	v, err := s.b.rdb.HGet(ctx, s.key, field).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("get", err)
	}
	return v, true, nil
}

func (s *store) RemoveItem(ctx context.Context, field string) error {
	if err := s.b.rdb.HDel(ctx, s.key, field).Err(); err != nil {
		return unavailable("remove", err)
	}
	return nil
}

func (s *store) Clear(ctx context.Context) error {
	if err := s.b.rdb.Del(ctx, s.key).Err(); err != nil {
		return unavailable("clear", err)
	}
	return nil
}

func unavailable(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("redis %s: %w", op, err)
	}
	return fmt.Errorf("redis %s: %w: %v", op, storage.ErrUnavailable, err)
}
