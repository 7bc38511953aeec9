// internal/app/store/tasks/taskstore.go
package taskstore

import (
	"context"

	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store provides read access to the tasks collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new tasks store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.CollectionTasks)}
}

// ListByPhaseDay returns the tasks scheduled on one phase day.
func (s *Store) ListByPhaseDay(ctx context.Context, phaseDayID primitive.ObjectID) ([]models.Task, error) {
	return s.find(ctx, bson.M{"phaseDayId": phaseDayID})
}

// ListAssignedTo returns every task whose assignment list contains userID.
func (s *Store) ListAssignedTo(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	return s.find(ctx, bson.M{"assignedUsers.userId": userID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Task, error) {
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Task
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
