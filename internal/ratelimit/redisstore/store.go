package redisstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/support-desk/internal/ratelimit"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store keeps one sorted set per key, scored by attempt time in
// milliseconds. Keys expire one window after the last failure.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func New(client *redis.Client, prefix string, window time.Duration) ratelimit.Store {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &Store{client: client, prefix: prefix, ttl: window}
}

func (s *Store) key(identifier, action string) string {
	return strings.Join([]string{s.prefix, action, identifier}, ":")
}

func (s *Store) Purge(ctx context.Context, identifier, action string, before time.Time) error {
	max := "(" + strconv.FormatInt(before.UnixMilli(), 10)
	return s.client.ZRemRangeByScore(ctx, s.key(identifier, action), "-inf", max).Err()
}

func (s *Store) Count(ctx context.Context, identifier, action string, since time.Time) (int64, error) {
	min := strconv.FormatInt(since.UnixMilli(), 10)
	return s.client.ZCount(ctx, s.key(identifier, action), min, "+inf").Result()
}

func (s *Store) Add(ctx context.Context, identifier, action, ip string, at time.Time) error {
	key := s.key(identifier, action)
	member := fmt.Sprintf("%d:%s:%s", at.UnixMilli(), ip, uuid.NewString())

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(at.UnixMilli()), Member: member})
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Clear(ctx context.Context, identifier, action string) error {
	return s.client.Del(ctx, s.key(identifier, action)).Err()
}
