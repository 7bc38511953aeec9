package convcache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vhht/vhhtbot/internal/app/store/convcache"
	"github.com/vhht/vhhtbot/internal/domain/models"
)

func setupTestStore(t *testing.T, ttl time.Duration) *convcache.Store {
	t.Helper()

	addr := os.Getenv("VHHTBOT_TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	store, err := convcache.New(ctx, convcache.Config{Addr: addr, DB: 15}, ttl)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_LoadMissing(t *testing.T) {
	store := setupTestStore(t, time.Minute)
	ctx := context.Background()

	id := "test-" + uuid.NewString()
	conv, err := store.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if conv.ID != id || conv.CampaignID != "" {
		t.Errorf("got %+v, want empty conversation %q", conv, id)
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := setupTestStore(t, time.Minute)
	ctx := context.Background()

	id := "test-" + uuid.NewString()
	err := store.Save(ctx, models.Conversation{ID: id, CampaignID: "abc", CampaignName: "Mùa Hè Xanh"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.CampaignID != "abc" || got.CampaignName != "Mùa Hè Xanh" {
		t.Errorf("got %+v", got)
	}
}

func TestStore_Expires(t *testing.T) {
	store := setupTestStore(t, time.Second)
	ctx := context.Background()

	id := "test-" + uuid.NewString()
	if err := store.Save(ctx, models.Conversation{ID: id, CampaignID: "abc"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	time.Sleep(1500 * time.Millisecond)

	got, err := store.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.CampaignID != "" {
		t.Errorf("expected expired conversation, got campaign %q", got.CampaignID)
	}
}
