// internal/app/store/phases/phasestore.go
package phasestore

import (
	"context"
	"errors"

	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a phase or phase day does not exist.
var ErrNotFound = errors.New("phase not found")

// Store provides read access to the phases and phasedays collections.
type Store struct {
	phases *mongo.Collection
	days   *mongo.Collection
}

// New creates a new phases store.
func New(db *mongo.Database) *Store {
	return &Store{
		phases: db.Collection(models.CollectionPhases),
		days:   db.Collection(models.CollectionPhaseDays),
	}
}

// ListByCampaign returns the campaign's phases in storage order.
func (s *Store) ListByCampaign(ctx context.Context, campaignID primitive.ObjectID) ([]models.Phase, error) {
	cur, err := s.phases.Find(ctx, bson.M{"campaignId": campaignID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Phase
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a single phase.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Phase, error) {
	var p models.Phase
	err := s.phases.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Phase{}, ErrNotFound
	}
	if err != nil {
		return models.Phase{}, err
	}
	return p, nil
}

// ListDays returns the days of a phase in storage order.
func (s *Store) ListDays(ctx context.Context, phaseID primitive.ObjectID) ([]models.PhaseDay, error) {
	cur, err := s.days.Find(ctx, bson.M{"phaseId": phaseID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.PhaseDay
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDay returns a single phase day.
func (s *Store) GetDay(ctx context.Context, id primitive.ObjectID) (models.PhaseDay, error) {
	var d models.PhaseDay
	err := s.days.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return models.PhaseDay{}, ErrNotFound
	}
	if err != nil {
		return models.PhaseDay{}, err
	}
	return d, nil
}
