// Package redis provides a Redis-backed ports.GraphStore, for editor
// deployments where authored graphs are shared between instances.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/atlasbruce/bramble/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.GraphStore using Redis. Graph documents live under
// a key prefix, with a set index for listing.
type Store struct {
	client *backend.Client
	prefix string
}

// Option configures the Store.
type Option func(*Store)

// WithPrefix sets the key prefix for graph documents.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "bramble:graph:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(id domain.GraphID) string {
	return s.prefix + id.String()
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the graph document and adds it to the index.
func (s *Store) Save(ctx context.Context, id domain.GraphID, g *domain.NodeGraph) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(id), data, 0)
	pipe.SAdd(ctx, s.indexKey(), id.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves and decodes a graph document.
func (s *Store) Load(ctx context.Context, id domain.GraphID) (*domain.NodeGraph, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrGraphNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var g domain.NodeGraph
	if err := json.Unmarshal([]byte(val), &g); err != nil {
		return nil, fmt.Errorf("failed to decode graph: %w", err)
	}
	return &g, nil
}

// Delete removes the graph document and its index entry.
func (s *Store) Delete(ctx context.Context, id domain.GraphID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(id))
	pipe.SRem(ctx, s.indexKey(), id.String())
	_, err := pipe.Exec(ctx)
	return err
}

// List returns all graph ids recorded in the index.
func (s *Store) List(ctx context.Context) ([]domain.GraphID, error) {
	members, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}

	ids := make([]domain.GraphID, 0, len(members))
	for _, m := range members {
		ids = append(ids, domain.GraphID(m))
	}
	return ids, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
