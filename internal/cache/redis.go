package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares verdicts between processes through Redis
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore connects to the Redis server at url (redis://host:port/db)
func NewRedisStore(url, prefix string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisStoreFromClient(redis.NewClient(opt), prefix), nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

// Ping checks connectivity
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackend, err)
	}
	return nil
}

// Get retrieves and decodes an entry
func (r *RedisStore) Get(ctx context.Context, key string) (*Entry, bool, error) {
	data, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %s: %v", ErrBackend, key, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("decode entry %s: %w", key, err)
	}
	return &entry, true, nil
}

// Add stores the entry with SETNX and no expiry. When another writer won,
// the stored entry is read back and returned.
func (r *RedisStore) Add(ctx context.Context, key string, entry *Entry) (*Entry, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encode entry: %w", err)
	}

	ok, err := r.rdb.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: setnx %s: %v", ErrBackend, key, err)
	}
	if ok {
		return entry, nil
	}

	existing, found, err := r.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return entry, nil
	}
	return existing, nil
}

// Len counts the keys under this store's prefix
func (r *RedisStore) Len(ctx context.Context) (int, error) {
	n := 0
	iter := r.rdb.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("%w: scan: %v", ErrBackend, err)
	}
	return n, nil
}

// Close releases the client
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
