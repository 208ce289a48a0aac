package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/postbrowser/internal/entities"
	"github.com/mrlokans/postbrowser/internal/events"
)

// FavouriteEventRecorder persists favourite history rows.
type FavouriteEventRecorder interface {
	Record(ctx context.Context, event *entities.FavouriteEventRecord) error
}

// RecordFavouriteEventTask appends one favourite change to the history log.
type RecordFavouriteEventTask struct {
	UserID    string                      `json:"user_id"`
	EventType entities.FavouriteEventType `json:"event_type"`
	Site      entities.Site               `json:"site"`
	PostID    int64                       `json:"post_id"`
	At        time.Time                   `json:"at"`
}

// Config returns the queue configuration for history writes.
func (t RecordFavouriteEventTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "record_favourite_event",
		MaxAttempts: 5,
		Backoff:     10 * time.Second,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func newRecordTask(evt events.FavouriteEvent) RecordFavouriteEventTask {
	return RecordFavouriteEventTask{
		UserID:    evt.UserID,
		EventType: evt.Type,
		Site:      evt.Identity.Site,
		PostID:    evt.Identity.PostID,
		At:        evt.At,
	}
}

func (t RecordFavouriteEventTask) record() *entities.FavouriteEventRecord {
	return &entities.FavouriteEventRecord{
		UserID:    t.UserID,
		EventType: t.EventType,
		Site:      t.Site,
		PostID:    t.PostID,
		CreatedAt: t.At,
	}
}

// RecordFavouriteEventProcessor creates a processor function for RecordFavouriteEventTask.
func RecordFavouriteEventProcessor(recorder FavouriteEventRecorder) backlite.QueueProcessor[RecordFavouriteEventTask] {
	return func(ctx context.Context, task RecordFavouriteEventTask) error {
		if recorder == nil {
			return fmt.Errorf("favourite event recorder not configured")
		}
		if err := recorder.Record(ctx, task.record()); err != nil {
			return fmt.Errorf("record favourite event: %w", err)
		}
		return nil
	}
}

// NewRecordFavouriteEventQueue creates a backlite queue for history writes.
func NewRecordFavouriteEventQueue(recorder FavouriteEventRecorder) backlite.Queue {
	return backlite.NewQueue(RecordFavouriteEventProcessor(recorder))
}

// EnqueueFavouriteEvents returns a bus handler that queues a history write
// for every favourite change.
func EnqueueFavouriteEvents(queue *HistoryQueue) events.Handler {
	return func(evt events.FavouriteEvent) {
		if _, err := queue.EnqueueEvent(evt); err != nil {
			log.Printf("[TASK ERROR] %s event for %s: %v", evt.Type, evt.Identity, err)
		}
	}
}

// RecordFavouriteEvents returns a bus handler that writes history inline.
// It is used when the task queue is disabled.
func RecordFavouriteEvents(recorder FavouriteEventRecorder) events.Handler {
	return func(evt events.FavouriteEvent) {
		if err := recorder.Record(context.Background(), newRecordTask(evt).record()); err != nil {
			log.Printf("[EVENTS] Failed to record %s event for %s: %v", evt.Type, evt.Identity, err)
		}
	}
}
