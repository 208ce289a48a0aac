package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/postbrowser/internal/database"
	"github.com/mrlokans/postbrowser/internal/database/favourites"
	"github.com/mrlokans/postbrowser/internal/database/history"
	"github.com/mrlokans/postbrowser/internal/events"
	"github.com/mrlokans/postbrowser/internal/http"
	"github.com/mrlokans/postbrowser/internal/postapi"
	"github.com/mrlokans/postbrowser/internal/session"
	"github.com/mrlokans/postbrowser/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// FavouritesStore implementations
var _ session.FavouritesStore = (*favourites.Repository)(nil)
var _ http.FavouritesStore = (*favourites.Repository)(nil)

// Favourite history implementations
var _ tasks.FavouriteEventRecorder = (*history.Repository)(nil)
var _ tasks.FavouriteHistoryCleaner = (*history.Repository)(nil)
var _ tasks.HistoryStore = (*history.Repository)(nil)
var _ http.QueueMonitor = (*tasks.HistoryQueue)(nil)
var _ http.HistoryReader = (*history.Repository)(nil)

// Health check
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Site Clients
// =============================================================================

var _ postapi.Client = (*postapi.GenericClient)(nil)
var _ session.SiteResolver = (*postapi.Registry)(nil)
var _ http.SiteDirectory = (*postapi.Registry)(nil)

// =============================================================================
// Sessions and Events
// =============================================================================

var _ session.PostSource = (*session.QuerySource)(nil)
var _ session.PostSource = (*session.FavouritesSource)(nil)
var _ session.Bus = (*events.Bus)(nil)
var _ http.SessionService = (*session.Manager)(nil)
var _ http.SessionCounter = (*session.Manager)(nil)
