package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/postbrowser/internal/entities"
	"github.com/mrlokans/postbrowser/internal/events"
)

type fakeRecorder struct {
	mu      sync.Mutex
	records []entities.FavouriteEventRecord
	err     error
	got     chan struct{}
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{got: make(chan struct{}, 10)}
}

func (r *fakeRecorder) Record(_ context.Context, event *entities.FavouriteEventRecord) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	r.records = append(r.records, *event)
	r.mu.Unlock()
	r.got <- struct{}{}
	return nil
}

type fakeCleaner struct {
	retention time.Duration
	deleted   int64
	err       error
}

func (c *fakeCleaner) DeleteOlderThan(_ context.Context, retention time.Duration) (int64, error) {
	c.retention = retention
	return c.deleted, c.err
}

func TestRecordFavouriteEventTaskConfig(t *testing.T) {
	cfg := RecordFavouriteEventTask{}.Config()

	assert.Equal(t, "record_favourite_event", cfg.Name)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.NotNil(t, cfg.Retention)
}

func TestRecordFavouriteEventProcessor(t *testing.T) {
	recorder := newFakeRecorder()
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	err := RecordFavouriteEventProcessor(recorder)(context.Background(), RecordFavouriteEventTask{
		UserID:    "U",
		EventType: entities.FavouriteAdded,
		Site:      entities.SiteRule34,
		PostID:    42,
		At:        at,
	})
	require.NoError(t, err)

	require.Len(t, recorder.records, 1)
	rec := recorder.records[0]
	assert.Equal(t, "U", rec.UserID)
	assert.Equal(t, entities.FavouriteAdded, rec.EventType)
	assert.Equal(t, entities.SiteRule34, rec.Site)
	assert.Equal(t, int64(42), rec.PostID)
	assert.Equal(t, at, rec.CreatedAt)
}

func TestRecordFavouriteEventProcessor_Errors(t *testing.T) {
	err := RecordFavouriteEventProcessor(nil)(context.Background(), RecordFavouriteEventTask{})
	assert.Error(t, err)

	recorder := newFakeRecorder()
	recorder.err = errors.New("locked")
	err = RecordFavouriteEventProcessor(recorder)(context.Background(), RecordFavouriteEventTask{})
	assert.ErrorContains(t, err, "locked")
}

func TestCleanupFavouriteEventsProcessor(t *testing.T) {
	tests := []struct {
		name          string
		retentionDays int
		want          time.Duration
	}{
		{"explicit retention", 7, 7 * 24 * time.Hour},
		{"default retention", 0, DefaultHistoryRetentionDays * 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaner := &fakeCleaner{deleted: 3}
			err := CleanupFavouriteEventsProcessor(cleaner)(context.Background(), CleanupFavouriteEventsTask{RetentionDays: tt.retentionDays})
			require.NoError(t, err)
			assert.Equal(t, tt.want, cleaner.retention)
		})
	}

	err := CleanupFavouriteEventsProcessor(&fakeCleaner{err: errors.New("boom")})(context.Background(), CleanupFavouriteEventsTask{})
	assert.ErrorContains(t, err, "boom")
}

func TestRecordFavouriteEvents_Inline(t *testing.T) {
	recorder := newFakeRecorder()
	bus := events.NewBus()
	bus.Subscribe(RecordFavouriteEvents(recorder))

	bus.Publish(events.FavouriteEvent{
		Type:     entities.FavouriteRemoved,
		UserID:   "U",
		Identity: entities.PostIdentity{Site: entities.SiteGelbooru, PostID: 9},
	})

	require.Len(t, recorder.records, 1)
	assert.Equal(t, entities.FavouriteRemoved, recorder.records[0].EventType)
	assert.False(t, recorder.records[0].CreatedAt.IsZero())
}

func TestEnqueueFavouriteEvents(t *testing.T) {
	store := newHistoryStub()
	queue := openTestQueue(t, store)
	startTestQueue(t, queue)

	bus := events.NewBus()
	bus.Subscribe(EnqueueFavouriteEvents(queue))
	bus.Publish(events.FavouriteEvent{
		Type:     entities.FavouriteAdded,
		UserID:   "U",
		Identity: entities.PostIdentity{Site: entities.SiteRule34, PostID: 1},
	})

	waitFor(t, store.got, "favourite event write")

	store.fakeRecorder.mu.Lock()
	defer store.fakeRecorder.mu.Unlock()
	require.Len(t, store.records, 1)
	assert.Equal(t, "U", store.records[0].UserID)
	assert.Equal(t, int64(1), store.records[0].PostID)
}
