package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// DefaultHistoryRetentionDays applies when a cleanup task carries no retention.
const DefaultHistoryRetentionDays = 90

// FavouriteHistoryCleaner deletes old favourite history rows.
type FavouriteHistoryCleaner interface {
	DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error)
}

// CleanupFavouriteEventsTask removes favourite events older than the retention period.
type CleanupFavouriteEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for history cleanup tasks.
func (t CleanupFavouriteEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_favourite_events",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupFavouriteEventsProcessor creates a processor function for CleanupFavouriteEventsTask.
func CleanupFavouriteEventsProcessor(cleaner FavouriteHistoryCleaner) backlite.QueueProcessor[CleanupFavouriteEventsTask] {
	return func(ctx context.Context, task CleanupFavouriteEventsTask) error {
		if cleaner == nil {
			return fmt.Errorf("favourite history cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = DefaultHistoryRetentionDays
		}
		retention := time.Duration(retentionDays) * 24 * time.Hour

		deleted, err := cleaner.DeleteOlderThan(ctx, retention)
		if err != nil {
			return fmt.Errorf("cleanup favourite events: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d favourite events older than %d days", deleted, retentionDays)
		return nil
	}
}

// NewCleanupFavouriteEventsQueue creates a backlite queue for history cleanup tasks.
func NewCleanupFavouriteEventsQueue(cleaner FavouriteHistoryCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupFavouriteEventsProcessor(cleaner))
}
