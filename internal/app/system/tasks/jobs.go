// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"

	"github.com/vhht/vhhtbot/internal/app/system/metrics"
	"go.uber.org/zap"
)

// DefaultPurgeSchedule runs the conversation purge every 15 minutes.
const DefaultPurgeSchedule = "*/15 * * * *"

// StalePurger removes conversations idle past their TTL.
type StalePurger interface {
	CleanupStale(ctx context.Context) (int64, error)
}

// ConversationPurgeJob creates a job that removes stale conversation state.
// This is a backup for when MongoDB's TTL index cleanup is delayed.
func ConversationPurgeJob(store StalePurger, logger *zap.Logger, schedule string) Job {
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}
	return Job{
		Name:     "conversation-purge",
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			count, err := store.CleanupStale(ctx)
			if err != nil {
				return err
			}
			metrics.PurgedConversations.Add(float64(count))
			if count > 0 {
				logger.Info("purged stale conversations", zap.Int64("count", count))
			}
			return nil
		},
	}
}
