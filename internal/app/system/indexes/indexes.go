// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Options controls which indexes EnsureAll reconciles.
type Options struct {
	// ConversationTTL is the idle expiry of conversation state.
	ConversationTTL time.Duration
	// ReadIndexes adds non-unique indexes on platform collections that
	// back the assistant's joins. The platform owns those collections, so
	// this is opt-in.
	ReadIndexes bool
}

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, opts Options) error {
	var problems []string

	if err := ensureConversations(ctx, db, opts.ConversationTTL); err != nil {
		problems = append(problems, "conversations: "+err.Error())
	}
	if opts.ReadIndexes {
		if err := ensureReadIndexes(ctx, db); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name               string `bson:"name"`
	Key                bson.D `bson:"key"`
	Unique             *bool  `bson:"unique,omitempty"`
	ExpireAfterSeconds *int32 `bson:"expireAfterSeconds,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	return (a != nil && *a) == (b != nil && *b)
}

func sameTTL(a, b *int32) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{} // sig -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

// ensureIndexSet creates missing indexes and drops and recreates any whose
// key pattern exists with a different name, uniqueness or TTL.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, want []mongo.IndexModel) error {
	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// A missing collection lists as empty on most servers; anything else
		// is surfaced when CreateOne fails below.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range want {
		var name string
		var unique *bool
		var ttl *int32
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
			ttl = m.Options.ExpireAfterSeconds
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if sameBoolPtr(unique, ex.Unique) && sameTTL(ttl, ex.ExpireAfterSeconds) && (name == "" || ex.Name == name) {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
			zap.L().Info("dropped index for recreation",
				zap.String("collection", coll.Name()),
				zap.String("name", ex.Name),
				zap.String("keys", sig))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collections                                                                */
/* -------------------------------------------------------------------------- */

func ensureConversations(ctx context.Context, db *mongo.Database, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("conversation TTL must be positive, got %s", ttl)
	}
	return ensureIndexSet(ctx, db.Collection(models.CollectionConversations), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().
				SetName("idx_conversations_ttl").
				SetExpireAfterSeconds(int32(ttl.Seconds())),
		},
	})
}

func ensureReadIndexes(ctx context.Context, db *mongo.Database) error {
	sets := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{models.CollectionPhases, []mongo.IndexModel{{
			Keys:    bson.D{{Key: "campaignId", Value: 1}},
			Options: options.Index().SetName("vhhtbot_phases_campaign"),
		}}},
		{models.CollectionPhaseDays, []mongo.IndexModel{{
			Keys:    bson.D{{Key: "phaseId", Value: 1}},
			Options: options.Index().SetName("vhhtbot_phasedays_phase"),
		}}},
		{models.CollectionTasks, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "phaseDayId", Value: 1}},
				Options: options.Index().SetName("vhhtbot_tasks_phaseday"),
			},
			{
				Keys:    bson.D{{Key: "assignedUsers.userId", Value: 1}},
				Options: options.Index().SetName("vhhtbot_tasks_assignee"),
			},
		}},
		{models.CollectionDepartments, []mongo.IndexModel{{
			Keys:    bson.D{{Key: "campaignId", Value: 1}},
			Options: options.Index().SetName("vhhtbot_departments_campaign"),
		}}},
		{models.CollectionCampaigns, []mongo.IndexModel{{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("vhhtbot_campaigns_status"),
		}}},
	}

	var problems []string
	for _, s := range sets {
		if err := ensureIndexSet(ctx, db.Collection(s.collection), s.models); err != nil {
			problems = append(problems, s.collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
