// internal/app/store/conversations/store.go
package conversations

import (
	"context"
	"time"

	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store keeps per-conversation state in MongoDB, one document per
// conversation id.
type Store struct {
	c   *mongo.Collection
	ttl time.Duration
}

// New creates a new conversations Store. Conversations idle for longer than
// ttl are expired by the TTL index and by CleanupStale.
func New(db *mongo.Database, ttl time.Duration) *Store {
	return &Store{c: db.Collection(models.CollectionConversations), ttl: ttl}
}

// Load returns the stored state for id. An unknown or expired conversation
// yields an empty Conversation with only ID set.
func (s *Store) Load(ctx context.Context, id string) (models.Conversation, error) {
	var conv models.Conversation
	err := s.c.FindOne(ctx, bson.M{
		"_id":        id,
		"updated_at": bson.M{"$gt": time.Now().UTC().Add(-s.ttl)},
	}).Decode(&conv)
	if err == mongo.ErrNoDocuments {
		return models.Conversation{ID: id}, nil
	}
	if err != nil {
		return models.Conversation{}, err
	}
	return conv, nil
}

// Save upserts the conversation and bumps updated_at.
func (s *Store) Save(ctx context.Context, conv models.Conversation) error {
	conv.UpdatedAt = time.Now().UTC()
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": conv.ID}, conv, options.Replace().SetUpsert(true))
	return err
}

// CleanupStale removes conversations idle for longer than the TTL.
// This is a backup for when TTL index cleanup is delayed.
func (s *Store) CleanupStale(ctx context.Context) (int64, error) {
	result, err := s.c.DeleteMany(ctx, bson.M{
		"updated_at": bson.M{"$lt": time.Now().UTC().Add(-s.ttl)},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
