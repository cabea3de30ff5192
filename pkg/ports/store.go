package ports

import (
	"context"

	"github.com/atlasbruce/bramble/pkg/domain"
)

// GraphStore defines the interface for persisting authored graphs. This is
// the editor's save/load surface; the in-session working set lives in the
// workspace Manager.
type GraphStore interface {
	// Save persists the graph under the given id.
	Save(ctx context.Context, id domain.GraphID, g *domain.NodeGraph) error

	// Load retrieves the graph for the given id.
	// Returns domain.ErrGraphNotFound if it does not exist.
	Load(ctx context.Context, id domain.GraphID) (*domain.NodeGraph, error)

	// Delete removes the graph for the given id.
	Delete(ctx context.Context, id domain.GraphID) error

	// List returns the ids of all persisted graphs.
	List(ctx context.Context) ([]domain.GraphID, error)
}
