// Package tests provides reusable contract suites for ports implementations.
package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/atlasbruce/bramble/pkg/domain"
	"github.com/atlasbruce/bramble/pkg/ports"
)

// GraphStoreContract verifies that an adapter complies with
// ports.GraphStore. Adapters run it against a fresh, empty store.
func GraphStoreContract(t *testing.T, store ports.GraphStore) {
	t.Helper()
	ctx := context.Background()

	build := func(name string) *domain.NodeGraph {
		g := domain.NewNodeGraph(name, domain.GraphKindBehaviorTree)
		root := g.CreateNode(domain.NodeTypeSelector, 0, 0, "root")
		child := g.CreateNode(domain.NodeTypeAction, 100, 50, "act")
		g.SetRoot(root)
		g.LinkNodes(root, child)
		g.SetParameter(child, "speed", "2.5")
		return g
	}

	t.Run("SaveAndLoad", func(t *testing.T) {
		id := domain.NewGraphID()
		if err := store.Save(ctx, id, build("patrol")); err != nil {
			t.Fatalf("save: %v", err)
		}

		loaded, err := store.Load(ctx, id)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if loaded.Name() != "patrol" {
			t.Errorf("name mismatch: got %q, want %q", loaded.Name(), "patrol")
		}
		if loaded.Len() != 2 {
			t.Errorf("expected 2 nodes, got %d", loaded.Len())
		}
		if loaded.RootID() != 1 {
			t.Errorf("root mismatch: got %d, want 1", loaded.RootID())
		}
		if v, ok := loaded.Parameter(2, "speed"); !ok || v != "2.5" {
			t.Errorf("parameter lost: got %q (present=%v)", v, ok)
		}
	})

	t.Run("LoadNotFound", func(t *testing.T) {
		_, err := store.Load(ctx, domain.NewGraphID())
		if !errors.Is(err, domain.ErrGraphNotFound) {
			t.Errorf("expected ErrGraphNotFound, got %v", err)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		id := domain.NewGraphID()
		if err := store.Save(ctx, id, build("v1")); err != nil {
			t.Fatalf("save v1: %v", err)
		}
		if err := store.Save(ctx, id, build("v2")); err != nil {
			t.Fatalf("save v2: %v", err)
		}
		loaded, err := store.Load(ctx, id)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if loaded.Name() != "v2" {
			t.Errorf("expected overwrite to win, got %q", loaded.Name())
		}
	})

	t.Run("DeleteAndList", func(t *testing.T) {
		id := domain.NewGraphID()
		if err := store.Save(ctx, id, build("doomed")); err != nil {
			t.Fatalf("save: %v", err)
		}

		ids, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if !containsID(ids, id) {
			t.Errorf("list missing %s", id)
		}

		if err := store.Delete(ctx, id); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := store.Load(ctx, id); !errors.Is(err, domain.ErrGraphNotFound) {
			t.Errorf("expected ErrGraphNotFound after delete, got %v", err)
		}

		// Deleting a missing graph is not an error.
		if err := store.Delete(ctx, id); err != nil {
			t.Errorf("second delete: %v", err)
		}
	})
}

func containsID(ids []domain.GraphID, id domain.GraphID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
