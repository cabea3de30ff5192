package file_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atlasbruce/bramble/internal/adapters/file"
	"github.com/atlasbruce/bramble/pkg/domain"
	"github.com/atlasbruce/bramble/pkg/ports/tests"
)

func TestStore_Contract(t *testing.T) {
	tests.GraphStoreContract(t, file.New(t.TempDir()))
}

func TestStore_CreatesDirectory(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "graphs")
	store := file.New(base)

	g := domain.NewNodeGraph("x", domain.GraphKindBehaviorTree)
	if err := store.Save(context.Background(), domain.NewGraphID(), g); err != nil {
		t.Fatalf("save into missing directory: %v", err)
	}
	if _, err := os.Stat(base); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}

func TestStore_WritesOneFilePerGraph(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	id := domain.NewGraphID()
	g := domain.NewNodeGraph("named", domain.GraphKindBehaviorTree)
	if err := store.Save(ctx, id, g); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 file, got %d", len(entries))
	}
	if !strings.HasSuffix(entries[0].Name(), ".json") {
		t.Errorf("expected a .json document, got %q", entries[0].Name())
	}
	// No temp files may survive the atomic write.
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "tmp-") {
			t.Errorf("leftover temp file %q", e.Name())
		}
	}
}
