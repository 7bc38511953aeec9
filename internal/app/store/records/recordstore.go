// internal/app/store/records/recordstore.go
package recordstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store runs capped, filtered reads against any collection of the platform
// database. Callers decode the raw documents into their own types.
type Store struct {
	db *mongo.Database
}

// New creates a new records store.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// Find returns up to limit documents of collection matching filter, in
// storage order. A limit of 0 means no limit.
func (s *Store) Find(ctx context.Context, collection string, filter bson.M, limit int64) ([]bson.Raw, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []bson.Raw
	for cur.Next(ctx) {
		doc := make(bson.Raw, len(cur.Current))
		copy(doc, cur.Current)
		out = append(out, doc)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
