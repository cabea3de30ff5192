package memory_test

import (
	"testing"

	"github.com/atlasbruce/bramble/pkg/adapters/memory"
	"github.com/atlasbruce/bramble/pkg/ports/tests"
)

func TestStore_Contract(t *testing.T) {
	tests.GraphStoreContract(t, memory.NewStore())
}
