package http

import (
	"context"

	"github.com/mrlokans/postbrowser/internal/entities"
	"github.com/mrlokans/postbrowser/internal/postapi"
	"github.com/mrlokans/postbrowser/internal/session"
)

// This file consolidates the interfaces HTTP controllers depend on. Each
// controller takes only the slice it needs.

// Pinger checks storage connectivity.
type Pinger interface {
	Ping() error
}

// SessionCounter reports how many sessions are live.
type SessionCounter interface {
	Len() int
}

// QueueMonitor reports whether background history workers are running.
type QueueMonitor interface {
	Running() bool
}

// SessionService creates and drives interactive sessions.
type SessionService interface {
	CreateQuery(ctx context.Context, ownerID, site, tags string) (*session.Session, *session.Render, error)
	CreateFavourites(ctx context.Context, ownerID string) (*session.Session, *session.Render, error)
	Handle(ctx context.Context, id, actingUser, action string) (session.Outcome, error)
	Current(ctx context.Context, id string) (session.Outcome, error)
}

// SiteDirectory lists and resolves site clients.
type SiteDirectory interface {
	Lookup(name string) (postapi.Client, error)
	Clients() []postapi.Client
}

// FavouritesStore is the read and remove side of the favourites store.
type FavouritesStore interface {
	List(ctx context.Context, userID string) ([]entities.FavouriteEntry, error)
	Remove(ctx context.Context, userID string, identity entities.PostIdentity) (bool, error)
}

// HistoryReader pages through recorded favourite events.
type HistoryReader interface {
	GetEvents(ctx context.Context, userID string, limit, offset int) ([]entities.FavouriteEventRecord, int64, error)
}
