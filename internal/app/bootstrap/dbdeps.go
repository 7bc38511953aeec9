// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/vhht/vhhtbot/internal/app/store/convcache"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Cache holds conversation state when conversation_store is redis.
	// It is nil otherwise.
	Cache *convcache.Store
}
