package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"

	"github.com/atlasbruce/bramble/internal/adapters/redis"
	"github.com/atlasbruce/bramble/pkg/domain"
	"github.com/atlasbruce/bramble/pkg/ports/tests"
)

func newTestStore(t *testing.T, opts ...redis.Option) *redis.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewFromClient(client, opts...)
}

func TestStore_Contract(t *testing.T) {
	tests.GraphStoreContract(t, newTestStore(t))
}

func TestStore_KeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := redis.NewFromClient(client, redis.WithPrefix("custom:"))
	ctx := context.Background()

	id := domain.NewGraphID()
	g := domain.NewNodeGraph("x", domain.GraphKindBehaviorTree)
	if err := store.Save(ctx, id, g); err != nil {
		t.Fatal(err)
	}

	if !mr.Exists("custom:" + id.String()) {
		t.Errorf("document key missing under custom prefix, keys: %v", mr.Keys())
	}
	members, err := mr.SMembers("custom:index")
	if err != nil || len(members) != 1 {
		t.Errorf("index not maintained under custom prefix: %v %v", members, err)
	}
}

func TestStore_IndexFollowsDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id := domain.NewGraphID()
	g := domain.NewNodeGraph("x", domain.GraphKindBehaviorTree)
	if err := store.Save(ctx, id, g); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}

	ids, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, got := range ids {
		if got == id {
			t.Error("deleted graph still listed in the index")
		}
	}
}
