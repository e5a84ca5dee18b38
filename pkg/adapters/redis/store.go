package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/seedbed/pkg/domain"
)

// Store implements ports.RecordStore using Redis. Values are stored as JSON;
// numbers come back as json.Number so large integers survive the round trip.
//
// IDs are constrained to string-kinded types because they double as Redis
// key components.
type Store[ID ~string] struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option[ID ~string] func(*Store[ID])

// WithTTL sets the expiration for stored records.
func WithTTL[ID ~string](ttl time.Duration) Option[ID] {
	return func(s *Store[ID]) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for records.
func WithPrefix[ID ~string](prefix string) Option[ID] {
	return func(s *Store[ID]) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New[ID ~string](address, password string, db int, opts ...Option[ID]) *Store[ID] {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient[ID ~string](client *backend.Client, opts ...Option[ID]) *Store[ID] {
	store := &Store[ID]{
		client: client,
		prefix: "seedbed:record:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store[ID]) key(id ID) string {
	return s.prefix + string(id)
}

func (s *Store[ID]) indexKey() string {
	return s.prefix + "index"
}

// Put persists the record to Redis as JSON.
func (s *Store[ID]) Put(ctx context.Context, id ID, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	pipe := s.client.Pipeline()

	pipe.Set(ctx, s.key(id), data, s.ttl)

	// Index membership (ZSET) scored by expiry, so List can prune lazily.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01, effectively no expiry
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: string(id),
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Get retrieves the record from Redis.
func (s *Store[ID]) Get(ctx context.Context, id ID) (any, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(val)))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return value, nil
}

// Delete removes the record and its index entry.
func (s *Store[ID]) Delete(ctx context.Context, id ID) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), string(id))

	_, err := pipe.Exec(ctx)
	return err
}

// List returns the IDs of stored records, pruning expired index entries.
func (s *Store[ID]) List(ctx context.Context) ([]ID, error) {
	now := float64(time.Now().Unix())

	// ZREMRANGEBYSCORE index -inf now: drops members whose TTL has passed.
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired records: %w", err)
	}

	members, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	ids := make([]ID, 0, len(members))
	for _, m := range members {
		ids = append(ids, ID(m))
	}
	return ids, nil
}

// Close closes the redis client.
func (s *Store[ID]) Close() error {
	return s.client.Close()
}
