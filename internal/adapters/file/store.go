// Package file provides a filesystem-backed ports.GraphStore. Each graph is
// one JSON document, written atomically.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atlasbruce/bramble/pkg/domain"
)

// Store implements ports.GraphStore on the local filesystem.
type Store struct {
	BasePath string
}

// New creates a new Store rooted at basePath. If basePath is empty, it
// defaults to ".bramble/graphs".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".bramble", "graphs")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(id domain.GraphID) string {
	return filepath.Join(s.BasePath, id.String()+".json")
}

// Save writes the graph to a JSON file atomically: temp file in the same
// directory, fsync, then rename.
func (s *Store) Save(ctx context.Context, id domain.GraphID, g *domain.NodeGraph) error {
	if id == "" {
		return fmt.Errorf("graph id cannot be empty")
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure graph directory: %w", err)
	}

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}

	// Same directory as the destination, so the rename stays on one
	// filesystem and is atomic.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+id.String()+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	destPath := s.path(id)

	// os.Rename cannot replace an existing file on Windows; remove first.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing graph file: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}
	return nil
}

// Load reads and decodes the graph file.
func (s *Store) Load(ctx context.Context, id domain.GraphID) (*domain.NodeGraph, error) {
	if id == "" {
		return nil, fmt.Errorf("graph id cannot be empty")
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrGraphNotFound
		}
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	var g domain.NodeGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to decode graph file: %w", err)
	}
	return &g, nil
}

// Delete removes the graph file. A missing file is not an error.
func (s *Store) Delete(ctx context.Context, id domain.GraphID) error {
	if id == "" {
		return fmt.Errorf("graph id cannot be empty")
	}

	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete graph file: %w", err)
	}
	return nil
}

// List returns all persisted graph ids.
func (s *Store) List(ctx context.Context) ([]domain.GraphID, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.GraphID{}, nil
		}
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}

	var ids []domain.GraphID
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := entry.Name()
		ids = append(ids, domain.GraphID(name[:len(name)-len(".json")]))
	}
	return ids, nil
}
