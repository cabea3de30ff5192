// Package memory provides an in-memory ports.GraphStore, mainly for tests
// and ephemeral sessions.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/atlasbruce/bramble/pkg/domain"
)

// Store implements ports.GraphStore in memory. Safe for concurrent use.
// Graphs are stored serialized so the store never aliases live graph state.
type Store struct {
	mu   sync.RWMutex
	data map[domain.GraphID][]byte
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[domain.GraphID][]byte),
	}
}

// Save persists the graph in memory.
func (s *Store) Save(ctx context.Context, id domain.GraphID, g *domain.NodeGraph) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = data
	return nil
}

// Load retrieves a graph from memory.
func (s *Store) Load(ctx context.Context, id domain.GraphID) (*domain.NodeGraph, error) {
	s.mu.RLock()
	data, ok := s.data[id]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrGraphNotFound
	}

	var g domain.NodeGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("unmarshal graph: %w", err)
	}
	return &g, nil
}

// Delete removes a graph.
func (s *Store) Delete(ctx context.Context, id domain.GraphID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the ids of all stored graphs.
func (s *Store) List(ctx context.Context) ([]domain.GraphID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]domain.GraphID, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
