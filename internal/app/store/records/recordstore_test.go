package recordstore_test

import (
	"testing"

	recordstore "github.com/vhht/vhhtbot/internal/app/store/records"
	"github.com/vhht/vhhtbot/internal/domain/models"
	"github.com/vhht/vhhtbot/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStore_Find(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := recordstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"An", "Bình", "Chi", "Dũng", "Giang", "Hà"} {
		fixtures.CreateUser(ctx, name, "sơ cứu")
	}

	docs, err := store.Find(ctx, models.CollectionUsers, bson.M{"status": "active"}, 5)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(docs) != 5 {
		t.Fatalf("len: got %d, want 5", len(docs))
	}

	var u models.User
	if err := bson.Unmarshal(docs[0], &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.FullName != "An" {
		t.Errorf("first record: got %q, want %q", u.FullName, "An")
	}

	empty, err := store.Find(ctx, models.CollectionDonorProfiles, bson.M{}, 5)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty result, got %d", len(empty))
	}
}
