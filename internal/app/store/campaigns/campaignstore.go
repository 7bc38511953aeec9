// internal/app/store/campaigns/campaignstore.go
package campaignstore

import (
	"context"
	"errors"
	"regexp"

	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no campaign matches the lookup.
	ErrNotFound = errors.New("campaign not found")
	// ErrInvalidID is returned when a campaign id is not a valid ObjectID hex.
	ErrInvalidID = errors.New("invalid campaign id")
)

// Store provides read access to the campaigns collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new campaigns store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.CollectionCampaigns)}
}

// GetByID returns the campaign with the given id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Campaign, error) {
	var c models.Campaign
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return models.Campaign{}, ErrNotFound
	}
	if err != nil {
		return models.Campaign{}, err
	}
	return c, nil
}

// GetByHex parses hex and returns the matching campaign.
func (s *Store) GetByHex(ctx context.Context, hex string) (models.Campaign, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return models.Campaign{}, ErrInvalidID
	}
	return s.GetByID(ctx, oid)
}

// FindExact looks a campaign up by its full name, ignoring case. With
// approvedOnly set, only campaigns whose acceptStatus is approved are
// considered.
func (s *Store) FindExact(ctx context.Context, name string, approvedOnly bool) (models.Campaign, error) {
	return s.findOne(ctx, nameFilter("^"+regexp.QuoteMeta(name)+"$", approvedOnly))
}

// FindByName looks a campaign up by name, ignoring case.
// An exact match wins; otherwise the first campaign whose name contains
// the given text is returned. Use FindExact where a near miss must not
// resolve to another campaign.
func (s *Store) FindByName(ctx context.Context, name string, approvedOnly bool) (models.Campaign, error) {
	c, err := s.FindExact(ctx, name, approvedOnly)
	if !errors.Is(err, ErrNotFound) {
		return c, err
	}
	return s.findOne(ctx, nameFilter(regexp.QuoteMeta(name), approvedOnly))
}

func nameFilter(pattern string, approvedOnly bool) bson.M {
	f := bson.M{"name": primitive.Regex{Pattern: pattern, Options: "i"}}
	if approvedOnly {
		f["acceptStatus"] = models.StatusApproved
	}
	return f
}

// ListByStatus returns up to limit campaigns with the given lifecycle status,
// in storage order. A limit of 0 means no limit.
func (s *Store) ListByStatus(ctx context.Context, status string, limit int64) ([]models.Campaign, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Campaign
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Campaign, error) {
	var c models.Campaign
	err := s.c.FindOne(ctx, filter).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return models.Campaign{}, ErrNotFound
	}
	if err != nil {
		return models.Campaign{}, err
	}
	return c, nil
}
