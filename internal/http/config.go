package http

import (
	"github.com/mrlokans/postbrowser/internal/events"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Sessions SessionService
	Sites    SiteDirectory
	Database Pinger

	// Live session count for the health endpoint
	SessionCounter SessionCounter

	// Favourites operations
	FavouritesStore FavouritesStore
	Events          events.Publisher

	// Favourite history (optional). HistoryQueue is nil when history is
	// written inline.
	History      HistoryReader
	HistoryQueue QueueMonitor

	// Application info
	Version string
}
