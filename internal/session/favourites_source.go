package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/mrlokans/postbrowser/internal/entities"
	"github.com/mrlokans/postbrowser/internal/events"
	"github.com/mrlokans/postbrowser/internal/postapi"
)

// SiteResolver finds the client serving a site.
type SiteResolver interface {
	Get(site entities.Site) (postapi.Client, error)
	Lookup(name string) (postapi.Client, error)
}

// Subscriber is the subscribing side of the event bus.
type Subscriber interface {
	Subscribe(h events.Handler) (unsubscribe func())
}

// FavouritesSource pages through one user's favourites. The list is loaded
// once and then kept current from favourite events for the same user.
type FavouritesSource struct {
	userID string
	sites  SiteResolver

	mu          sync.RWMutex
	entries     []entities.FavouriteEntry
	unsubscribe func()
}

// NewFavouritesSource loads the user's favourites and subscribes to changes.
func NewFavouritesSource(ctx context.Context, userID string, store FavouritesStore, sites SiteResolver, bus Subscriber) (*FavouritesSource, error) {
	entries, err := store.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	src := &FavouritesSource{
		userID:  userID,
		sites:   sites,
		entries: entries,
	}
	if bus != nil {
		src.unsubscribe = bus.Subscribe(src.onFavouriteEvent)
	}
	return src, nil
}

func (f *FavouritesSource) onFavouriteEvent(evt events.FavouriteEvent) {
	if evt.UserID != f.userID {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	idx := f.indexOf(evt.Identity)
	switch evt.Type {
	case entities.FavouriteAdded:
		if idx < 0 {
			f.entries = append(f.entries, entities.FavouriteEntry{Identity: evt.Identity, AddedAt: evt.At})
		}
	case entities.FavouriteRemoved:
		if idx >= 0 {
			f.entries = append(f.entries[:idx:idx], f.entries[idx+1:]...)
		}
	default:
		log.Printf("[SESSION] Ignoring unknown favourite event type %q", evt.Type)
	}
}

func (f *FavouritesSource) indexOf(identity entities.PostIdentity) int {
	for i, e := range f.entries {
		if e.Identity == identity {
			return i
		}
	}
	return -1
}

func (f *FavouritesSource) Count(context.Context) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries), nil
}

func (f *FavouritesSource) PostAt(ctx context.Context, page int) (*entities.Post, error) {
	f.mu.RLock()
	if page < 0 || page >= len(f.entries) {
		f.mu.RUnlock()
		return nil, nil
	}
	identity := f.entries[page].Identity
	f.mu.RUnlock()

	client, err := f.sites.Get(identity.Site)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", postapi.ErrFetch, err)
	}
	return client.FetchByID(ctx, identity.PostID)
}

func (f *FavouritesSource) Title() string {
	return "Favourites"
}

func (f *FavouritesSource) PostURL(post *entities.Post) string {
	client, err := f.sites.Get(post.Site)
	if err != nil {
		return ""
	}
	return client.PostURL(post.ID)
}

// Close stops listening for favourite events.
func (f *FavouritesSource) Close() {
	if f.unsubscribe != nil {
		f.unsubscribe()
	}
}
