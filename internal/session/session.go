// Package session implements the interactive paging display bound to one
// message: it tracks the current page, resolves the current post on demand
// and turns button actions into a re-render or a one-shot notice.
package session

import (
	"context"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/mrlokans/postbrowser/internal/entities"
	"github.com/mrlokans/postbrowser/internal/events"
)

// FavouritesStore is the persistence contract sessions rely on.
type FavouritesStore interface {
	Has(ctx context.Context, userID string, identity entities.PostIdentity) (bool, error)
	Add(ctx context.Context, userID string, identity entities.PostIdentity) (bool, error)
	Remove(ctx context.Context, userID string, identity entities.PostIdentity) (bool, error)
	List(ctx context.Context, userID string) ([]entities.FavouriteEntry, error)
}

type State int

const (
	StateActive State = iota
	StateDeleted
)

func (s State) String() string {
	if s == StateDeleted {
		return "deleted"
	}
	return "active"
}

type NoticeKind string

const (
	NoticeFavouriteAdded    NoticeKind = "favourite-added"
	NoticeAlreadyFavourited NoticeKind = "already-favourited"
	NoticeFavouriteRemoved  NoticeKind = "favourite-removed"
	NoticeNotFavourited     NoticeKind = "not-favourited"
	NoticeNoPost            NoticeKind = "no-post"
	NoticePermissionDenied  NoticeKind = "permission-denied"
	NoticeFetchError        NoticeKind = "fetch-error"
	NoticeStorageError      NoticeKind = "storage-error"
	NoticeSessionDeleted    NoticeKind = "session-deleted"
)

// Notice is a one-shot reply shown only to the acting user.
type Notice struct {
	Kind      NoticeKind `json:"kind"`
	Message   string     `json:"message"`
	Ephemeral bool       `json:"ephemeral"`
}

// Outcome is the single user-visible result of an action: exactly one of
// Render, Notice or Deleted is set.
type Outcome struct {
	Render  *Render `json:"render,omitempty"`
	Notice  *Notice `json:"notice,omitempty"`
	Deleted bool    `json:"deleted,omitempty"`
}

func notice(kind NoticeKind, message string) Outcome {
	return Outcome{Notice: &Notice{Kind: kind, Message: message, Ephemeral: true}}
}

// Session is the paging and favouriting state of one display. Actions are
// serialised by mu across the whole read-modify-render sequence.
type Session struct {
	id      string
	ownerID string
	source  PostSource
	store   FavouritesStore
	events  events.Publisher

	randIntn func(n int) int
	now      func() time.Time

	mu         sync.Mutex
	page       int
	count      int
	displayed  *entities.PostIdentity // nil while no post is shown
	state      State
	lastActive time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithRandom replaces the page picker used by random-page.
func WithRandom(intn func(n int) int) Option {
	return func(s *Session) { s.randIntn = intn }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates an active session at page zero. Call Start to produce the first render.
func New(id, ownerID string, source PostSource, store FavouritesStore, publisher events.Publisher, opts ...Option) *Session {
	s := &Session{
		id:       id,
		ownerID:  ownerID,
		source:   source,
		store:    store,
		events:   publisher,
		randIntn: rand.IntN,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastActive = s.now()
	return s
}

func (s *Session) ID() string      { return s.id }
func (s *Session) OwnerID() string { return s.ownerID }

func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Start observes the result count and renders page zero.
func (s *Session) Start(ctx context.Context) (*Render, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.source.Count(ctx)
	if err != nil {
		return nil, err
	}
	render, post, err := s.renderAt(ctx, 0, count)
	if err != nil {
		return nil, err
	}
	s.commit(0, count, post)
	s.touch()
	return render, nil
}

// Current re-renders the current page against a fresh count.
func (s *Session) Current(ctx context.Context) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDeleted {
		return notice(NoticeSessionDeleted, "This message has been deleted.")
	}
	s.touch()
	return s.transition(ctx, func(page, count int) int { return floorMod(page, count) })
}

// Handle dispatches one button action from actingUser.
func (s *Session) Handle(ctx context.Context, actingUser, rawAction string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDeleted {
		return notice(NoticeSessionDeleted, "This message has been deleted.")
	}
	s.touch()

	action, err := ParseAction(rawAction)
	if err != nil {
		// A host-side inconsistency, not a user error: keep the display as it is.
		log.Printf("[SESSION] %s: received %v", s.id, err)
		return s.transition(ctx, func(page, count int) int { return floorMod(page, count) })
	}

	switch action {
	case ActionNextPage:
		return s.transition(ctx, func(page, count int) int { return floorMod(page+1, count) })
	case ActionPreviousPage:
		return s.transition(ctx, func(page, count int) int { return floorMod(page-1, count) })
	case ActionRandomPage:
		return s.transition(ctx, func(_, count int) int { return s.randIntn(count) })
	case ActionAddFavourite:
		return s.addFavourite(ctx, actingUser)
	case ActionRemoveFavourite:
		return s.removeFavourite(ctx, actingUser)
	case ActionDelete:
		return s.delete(actingUser)
	}
	return s.transition(ctx, func(page, count int) int { return floorMod(page, count) })
}

// transition moves to the page chosen by move and renders it. State is only
// committed once the render succeeded, so a failed fetch leaves the page as it was.
func (s *Session) transition(ctx context.Context, move func(page, count int) int) Outcome {
	count, err := s.source.Count(ctx)
	if err != nil {
		return s.fetchError(err)
	}

	candidate := 0
	if count > 0 {
		candidate = move(s.page, count)
	}

	render, post, err := s.renderAt(ctx, candidate, count)
	if err != nil {
		return s.fetchError(err)
	}

	s.commit(candidate, count, post)
	return Outcome{Render: render}
}

func (s *Session) commit(page, count int, post *entities.Post) {
	s.page, s.count = page, count
	s.displayed = nil
	if post != nil {
		identity := post.Identity()
		s.displayed = &identity
	}
}

// resolveCurrent returns the identity of the post shown by the last
// successful render.
func (s *Session) resolveCurrent() (entities.PostIdentity, bool) {
	if s.displayed == nil {
		return entities.PostIdentity{}, false
	}
	return *s.displayed, true
}

func (s *Session) renderAt(ctx context.Context, page, count int) (*Render, *entities.Post, error) {
	var post *entities.Post
	if count > 0 {
		var err error
		post, err = s.source.PostAt(ctx, page)
		if err != nil {
			return nil, nil, err
		}
	}
	return buildRender(s.source, post, page, count, s.now()), post, nil
}

func (s *Session) addFavourite(ctx context.Context, actingUser string) Outcome {
	identity, ok := s.resolveCurrent()
	if !ok {
		return notice(NoticeNoPost, "There is no post to favourite.")
	}

	has, err := s.store.Has(ctx, actingUser, identity)
	if err != nil {
		return s.storageError(err, "Error storing favourite.")
	}
	if has {
		return notice(NoticeAlreadyFavourited, "Already stored as favourite.")
	}

	added, err := s.store.Add(ctx, actingUser, identity)
	if err != nil {
		return s.storageError(err, "Error storing favourite.")
	}
	if !added {
		return notice(NoticeAlreadyFavourited, "Already stored as favourite.")
	}

	s.publish(entities.FavouriteAdded, actingUser, identity)
	return notice(NoticeFavouriteAdded, "Successfully stored favourite.")
}

func (s *Session) removeFavourite(ctx context.Context, actingUser string) Outcome {
	identity, ok := s.resolveCurrent()
	if !ok {
		return notice(NoticeNoPost, "There is no post to remove from favourites.")
	}

	has, err := s.store.Has(ctx, actingUser, identity)
	if err != nil {
		return s.storageError(err, "Error removing favourite.")
	}
	if !has {
		return notice(NoticeNotFavourited, "Not stored as favourite.")
	}

	removed, err := s.store.Remove(ctx, actingUser, identity)
	if err != nil {
		return s.storageError(err, "Error removing favourite.")
	}
	if !removed {
		return notice(NoticeNotFavourited, "Not stored as favourite.")
	}

	s.publish(entities.FavouriteRemoved, actingUser, identity)
	return notice(NoticeFavouriteRemoved, "Successfully removed favourite.")
}

func (s *Session) delete(actingUser string) Outcome {
	if actingUser != s.ownerID {
		return notice(NoticePermissionDenied, ErrPermissionDenied.Error())
	}
	s.state = StateDeleted
	if c, ok := s.source.(closer); ok {
		c.Close()
	}
	log.Printf("[SESSION] %s: deleted by owner %s", s.id, actingUser)
	return Outcome{Deleted: true}
}

// expire transitions to Deleted without an owner check, for host-side expiry.
func (s *Session) expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDeleted {
		return
	}
	s.state = StateDeleted
	if c, ok := s.source.(closer); ok {
		c.Close()
	}
}

func (s *Session) publish(kind entities.FavouriteEventType, userID string, identity entities.PostIdentity) {
	if s.events == nil {
		return
	}
	s.events.Publish(events.FavouriteEvent{
		Type:     kind,
		UserID:   userID,
		Identity: identity,
		At:       s.now(),
	})
}

func (s *Session) fetchError(err error) Outcome {
	log.Printf("[SESSION] %s: fetch failed: %v", s.id, err)
	return notice(NoticeFetchError, "Error fetching post.")
}

func (s *Session) storageError(err error, message string) Outcome {
	log.Printf("[SESSION] %s: favourite storage failed: %v", s.id, err)
	return notice(NoticeStorageError, message)
}

func (s *Session) touch() {
	s.lastActive = s.now()
}
