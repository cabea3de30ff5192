package workspace_test

import (
	"context"
	"errors"
	"testing"

	"github.com/atlasbruce/bramble/pkg/adapters/memory"
	"github.com/atlasbruce/bramble/pkg/domain"
	"github.com/atlasbruce/bramble/pkg/workspace"
)

func TestManager_CreateAndGet(t *testing.T) {
	m := workspace.NewManager()

	id := m.CreateGraph("patrol", domain.GraphKindBehaviorTree)
	if id == "" {
		t.Fatal("empty graph id")
	}

	g, err := m.Graph(id)
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if g.Name() != "patrol" || g.Kind() != domain.GraphKindBehaviorTree {
		t.Errorf("graph header mismatch: %q %q", g.Name(), g.Kind())
	}

	// Each graph gets a distinct id.
	other := m.CreateGraph("hunt", domain.GraphKindHFSM)
	if other == id {
		t.Error("graph ids must be unique")
	}
}

func TestManager_GraphNotFound(t *testing.T) {
	m := workspace.NewManager()
	_, err := m.Graph("nope")
	if !errors.Is(err, domain.ErrGraphNotFound) {
		t.Errorf("expected ErrGraphNotFound, got %v", err)
	}
}

func TestManager_Active(t *testing.T) {
	m := workspace.NewManager()

	first := m.CreateGraph("first", domain.GraphKindBehaviorTree)
	second := m.CreateGraph("second", domain.GraphKindBehaviorTree)

	// Creation makes the new graph active.
	activeID, _, ok := m.Active()
	if !ok || activeID != second {
		t.Errorf("active after create: got %s, want %s", activeID, second)
	}

	if err := m.SetActive(first); err != nil {
		t.Fatalf("set active: %v", err)
	}
	activeID, g, ok := m.Active()
	if !ok || activeID != first || g.Name() != "first" {
		t.Errorf("active after switch: %s %q", activeID, g.Name())
	}

	if err := m.SetActive("nope"); err == nil {
		t.Error("activating an unknown graph must fail")
	}
}

func TestManager_CloseGraph(t *testing.T) {
	m := workspace.NewManager()
	id := m.CreateGraph("doomed", domain.GraphKindBehaviorTree)

	if !m.CloseGraph(id) {
		t.Fatal("close failed")
	}
	if m.CloseGraph(id) {
		t.Error("double close must return false")
	}
	if _, _, ok := m.Active(); ok {
		t.Error("closing the active graph must clear the active pointer")
	}
}

func TestManager_List(t *testing.T) {
	m := workspace.NewManager()
	a := m.CreateGraph("a", domain.GraphKindBehaviorTree)
	b := m.CreateGraph("b", domain.GraphKindHFSM)

	ids := m.List()
	if len(ids) != 2 {
		t.Fatalf("expected 2 graphs, got %d", len(ids))
	}
	seen := map[domain.GraphID]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[a] || !seen[b] {
		t.Errorf("list missing graphs: %v", ids)
	}
}

func TestManager_SaveAndLoad(t *testing.T) {
	store := memory.NewStore()
	m := workspace.NewManager(workspace.WithStore(store))
	ctx := context.Background()

	id := m.CreateGraph("persisted", domain.GraphKindBehaviorTree)
	g, _ := m.Graph(id)
	root := g.CreateNode(domain.NodeTypeSelector, 0, 0, "root")
	g.SetRoot(root)

	if err := m.SaveGraph(ctx, id); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Close, then load back from the store.
	m.CloseGraph(id)
	loaded, err := m.LoadGraph(ctx, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Name() != "persisted" || loaded.RootID() != root {
		t.Errorf("loaded graph mismatch: %q root=%d", loaded.Name(), loaded.RootID())
	}

	// Loading also opens and activates.
	activeID, _, ok := m.Active()
	if !ok || activeID != id {
		t.Errorf("load must activate the graph: %s", activeID)
	}
}

func TestManager_SaveWithoutStore(t *testing.T) {
	m := workspace.NewManager()
	id := m.CreateGraph("x", domain.GraphKindBehaviorTree)

	if err := m.SaveGraph(context.Background(), id); err == nil {
		t.Error("save without a configured store must fail")
	}
	if _, err := m.LoadGraph(context.Background(), id); err == nil {
		t.Error("load without a configured store must fail")
	}
}
