// internal/app/store/departments/departmentstore.go
package departmentstore

import (
	"context"

	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store provides read access to the departments collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new departments store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.CollectionDepartments)}
}

// ListByCampaign returns the departments that reference the campaign.
func (s *Store) ListByCampaign(ctx context.Context, campaignID primitive.ObjectID) ([]models.Department, error) {
	cur, err := s.c.Find(ctx, bson.M{"campaignId": campaignID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Department
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
