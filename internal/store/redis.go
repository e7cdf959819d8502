package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"yashubustudio/slotguide/slots"
)

const defaultKeyPrefix = "slotguide:pending:"

// RedisOptions configures RedisStore.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// RedisStore keeps flags in Redis so several server replicas share them.
type RedisStore struct {
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStoreFromClient(rdb, opts.KeyPrefix, opts.TTL), nil
}

// NewRedisStoreFromClient wraps an existing client without pinging it.
func NewRedisStoreFromClient(rdb *goredis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) key(conversationID string) string { return r.prefix + conversationID }

func (r *RedisStore) Pending(ctx context.Context, conversationID string) (slots.State, error) {
	if conversationID == "" {
		return slots.StateNone, ErrEmptyConversation
	}
	raw, err := r.rdb.Get(ctx, r.key(conversationID)).Result()
	if errors.Is(err, goredis.Nil) {
		return slots.StateNone, nil
	}
	if err != nil {
		return slots.StateNone, fmt.Errorf("redis get: %w", err)
	}
	return slots.StateFromSlot(raw), nil
}

// SetPending stores state with the configured TTL. StateNone deletes the key.
func (r *RedisStore) SetPending(ctx context.Context, conversationID string, state slots.State) error {
	if conversationID == "" {
		return ErrEmptyConversation
	}
	if state == slots.StateNone {
		return r.Forget(ctx, conversationID)
	}
	if err := r.rdb.Set(ctx, r.key(conversationID), state.String(), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisStore) Forget(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return ErrEmptyConversation
	}
	if err := r.rdb.Del(ctx, r.key(conversationID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error { return r.rdb.Close() }
