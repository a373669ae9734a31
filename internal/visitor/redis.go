package visitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "account_portal:visitor:"

// RedisStore shares visitors between portal instances.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Visitor, error) {
	b, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get visitor %s: %w", id, err)
	}
	var v Visitor
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decode visitor %s: %w", id, err)
	}
	return &v, nil
}

func (s *RedisStore) Save(ctx context.Context, v *Visitor) error {
	v.UpdatedAt = time.Now().UTC()
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode visitor %s: %w", v.ID, err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+v.ID, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set visitor %s: %w", v.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis delete visitor %s: %w", id, err)
	}
	return nil
}
