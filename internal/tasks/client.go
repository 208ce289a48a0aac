package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/postbrowser/internal/events"
)

// HistoryStore is where queued favourite history ends up.
type HistoryStore interface {
	FavouriteEventRecorder
	FavouriteHistoryCleaner
}

// HistoryQueue moves favourite history writes and cleanups off the request
// path. Tasks live in their own SQLite file next to the favourites database,
// so pending writes survive a restart.
type HistoryQueue struct {
	client *backlite.Client
	db     *sql.DB
	path   string
	config Config

	mu      sync.RWMutex
	running bool
}

// QueuePath returns the task database path for a favourites database:
// "data/postbrowser.db" becomes "data/postbrowser-tasks.db".
func QueuePath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext
}

// OpenHistoryQueue opens the queue beside mainDBPath and registers the
// record and cleanup queues against store.
func OpenHistoryQueue(mainDBPath string, cfg Config, store HistoryStore) (*HistoryQueue, error) {
	cfg.Workers = max(cfg.Workers, 1)
	path := QueuePath(mainDBPath)

	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open history queue %s: %w", path, err)
	}
	// Workers plus the enqueuing request handlers.
	db.SetMaxOpenConns(cfg.Workers + 4)
	db.SetMaxIdleConns(cfg.Workers + 1)
	db.SetConnMaxLifetime(time.Hour)

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          taskLogger{},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create history queue: %w", err)
	}
	if err := client.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("install history queue schema: %w", err)
	}

	client.Register(NewRecordFavouriteEventQueue(store))
	client.Register(NewCleanupFavouriteEventsQueue(store))

	return &HistoryQueue{client: client, db: db, path: path, config: cfg}, nil
}

// Path is the SQLite file holding queued tasks.
func (q *HistoryQueue) Path() string {
	return q.path
}

// Running reports whether workers have been started and not stopped.
func (q *HistoryQueue) Running() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.running
}

// Start runs the workers until Stop or until ctx is cancelled.
func (q *HistoryQueue) Start(ctx context.Context) {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	q.mu.Unlock()

	log.Printf("[TASK] History queue started with %d workers (%s)", q.config.Workers, q.path)
	q.client.Start(ctx)
}

// Stop waits for in-flight tasks until ctx is done. Tasks not yet picked up
// stay queued for the next start. It reports whether workers drained in time.
func (q *HistoryQueue) Stop(ctx context.Context) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.running {
		return true
	}
	q.running = false

	if !q.client.Stop(ctx) {
		log.Println("[TASK] History queue stop timed out, unfinished favourite events stay queued")
		return false
	}
	log.Println("[TASK] History queue stopped")
	return true
}

// Close releases the task database. Call after Stop.
func (q *HistoryQueue) Close() error {
	return q.db.Close()
}

// EnqueueEvent queues one favourite change for the history log.
func (q *HistoryQueue) EnqueueEvent(evt events.FavouriteEvent) (string, error) {
	return q.save(newRecordTask(evt))
}

// EnqueueCleanup queues removal of history older than retentionDays.
func (q *HistoryQueue) EnqueueCleanup(retentionDays int) (string, error) {
	return q.save(CleanupFavouriteEventsTask{RetentionDays: retentionDays})
}

func (q *HistoryQueue) save(task backlite.Task) (string, error) {
	ids, err := q.client.Add(task).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", task.Config().Name, err)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("enqueue %s: no task id returned", task.Config().Name)
	}
	return ids[0], nil
}

type taskLogger struct{}

func (taskLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (taskLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}
