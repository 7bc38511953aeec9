package taskstore_test

import (
	"testing"
	"time"

	taskstore "github.com/vhht/vhhtbot/internal/app/store/tasks"
	"github.com/vhht/vhhtbot/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_ListAssignedTo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	day := fixtures.CreatePhaseDay(ctx, primitive.NewObjectID(), testutil.Date(2025, time.June, 2))

	fixtures.CreateTask(ctx, day.ID, "Dọn rác", alice)
	fixtures.CreateTask(ctx, day.ID, "Phát nước", alice, bob)
	fixtures.CreateTask(ctx, day.ID, "Trực bàn", bob)

	got, err := store.ListAssignedTo(ctx, alice)
	if err != nil {
		t.Fatalf("ListAssignedTo failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len: got %d, want 2", len(got))
	}

	byDay, err := store.ListByPhaseDay(ctx, day.ID)
	if err != nil {
		t.Fatalf("ListByPhaseDay failed: %v", err)
	}
	if len(byDay) != 3 {
		t.Errorf("ListByPhaseDay len: got %d, want 3", len(byDay))
	}

	none, err := store.ListAssignedTo(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("ListAssignedTo failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no tasks, got %d", len(none))
	}
}
