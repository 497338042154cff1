// Package redis implements storage.ProcessedStore on Redis. Each processed
// actor is a string key under a prefix, optionally expiring so actors are
// rediscovered after a while.
package redis

import (
	"context"
	"errors"
	"fmt"
	"lemmony/pkg/domain"
	"lemmony/pkg/storage"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces processed actor keys.
const DefaultPrefix = "lemmony:processed:"

// Store implements storage.ProcessedStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option customizes a Store.
type Option func(*Store)

// WithTTL expires processed markers after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New connects to the Redis server at address and verifies it answers.
func New(ctx context.Context, address, password string, db int, opts ...Option) (*Store, error) {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()

		return nil, fmt.Errorf("could not reach redis: %w", err)
	}

	return NewFromClient(rdb, opts...), nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(actorID string) string {
	return s.prefix + actorID
}

// IsProcessed reports whether the key of actorID exists.
func (s *Store) IsProcessed(ctx context.Context, actorID string) (bool, error) {
	if actorID == "" {
		return false, storage.ErrEmptyActorID
	}

	_, err := s.client.Get(ctx, s.key(actorID)).Result()
	if errors.Is(err, backend.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not look up processed actor in redis: %w", err)
	}

	return true, nil
}

// MarkProcessed stores the actor's instance under its key, resetting the TTL.
func (s *Store) MarkProcessed(ctx context.Context, actor domain.RemoteActor) error {
	if actor.ActorID == "" {
		return storage.ErrEmptyActorID
	}

	if err := s.client.Set(ctx, s.key(actor.ActorID), actor.Instance, s.ttl).Err(); err != nil {
		return fmt.Errorf("could not store processed actor into redis: %w", err)
	}

	return nil
}

// Close closes the client.
func (s *Store) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("could not close redis client: %w", err)
	}

	return nil
}

var _ storage.ProcessedStore = (*Store)(nil)
