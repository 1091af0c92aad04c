// internal/store/redis.go
//
// Redis implementation of the Store interface.
// Responsibilities:
//   - JSON-encode rounds under guess:round:<session>.
//   - Refresh the TTL on every save so idle rounds expire.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/robalobadob/guessnumber/internal/game"
)

const redisKeyPrefix = "guess:round:"

// RedisOptions configures NewRedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// TTL is refreshed on every save; idle rounds expire after it.
	TTL time.Duration
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, opts RedisOptions) (Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return &redisStore{client: rdb, ttl: opts.TTL}, nil
}

func redisKey(sessionID string) string { return redisKeyPrefix + sessionID }

func (r *redisStore) Save(ctx context.Context, sessionID string, s game.State) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode round: %w", err)
	}
	if err := r.client.Set(ctx, redisKey(sessionID), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("save round: %w", err)
	}
	return nil
}

func (r *redisStore) Get(ctx context.Context, sessionID string) (game.State, error) {
	b, err := r.client.Get(ctx, redisKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return game.State{}, ErrNotFound
	}
	if err != nil {
		return game.State{}, fmt.Errorf("get round: %w", err)
	}
	var s game.State
	if err := json.Unmarshal(b, &s); err != nil {
		return game.State{}, fmt.Errorf("decode round: %w", err)
	}
	return s, nil
}

func (r *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, redisKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete round: %w", err)
	}
	return nil
}

func (r *redisStore) Close() error { return r.client.Close() }
