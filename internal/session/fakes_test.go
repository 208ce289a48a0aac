package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/mrlokans/postbrowser/internal/entities"
	"github.com/mrlokans/postbrowser/internal/events"
	"github.com/mrlokans/postbrowser/internal/postapi"
)

// fakeClient serves a fixed list of posts per tag query.
type fakeClient struct {
	site     entities.Site
	maxCount int

	mu        sync.Mutex
	posts     map[string][]entities.Post
	failCount bool
	failPosts bool
	calls     int
}

var _ postapi.Client = (*fakeClient)(nil)

func newFakeClient(site entities.Site, tags string, ids ...int64) *fakeClient {
	c := &fakeClient{site: site, posts: map[string][]entities.Post{}}
	for _, id := range ids {
		c.posts[tags] = append(c.posts[tags], entities.Post{ID: id, Tags: []string{tags}})
	}
	return c
}

func (c *fakeClient) setFailures(count, posts bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failCount, c.failPosts = count, posts
}

func (c *fakeClient) Site() entities.Site   { return c.site }
func (c *fakeClient) DisplayName() string   { return string(c.site) }
func (c *fakeClient) HasAutocomplete() bool { return false }
func (c *fakeClient) PostURL(id int64) string {
	return fmt.Sprintf("https://%s.example/post/%d", c.site, id)
}

func (c *fakeClient) MaxCount() (int, bool) {
	return c.maxCount, c.maxCount > 0
}

func (c *fakeClient) Autocomplete(context.Context, string) ([]postapi.Suggestion, error) {
	return nil, postapi.ErrAutocompleteUnsupported
}

func (c *fakeClient) FetchCount(_ context.Context, tags string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.failCount {
		return 0, fmt.Errorf("%w: count unavailable", postapi.ErrFetch)
	}
	return len(c.posts[tags]), nil
}

func (c *fakeClient) FetchByTagsAndPage(_ context.Context, tags string, page int) (*entities.Post, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.failPosts {
		return nil, fmt.Errorf("%w: status 500", postapi.ErrFetch)
	}
	posts := c.posts[tags]
	if page < 0 || page >= len(posts) {
		return nil, nil
	}
	post := posts[page]
	post.Site = c.site
	return &post, nil
}

func (c *fakeClient) FetchByID(_ context.Context, id int64) (*entities.Post, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.failPosts {
		return nil, fmt.Errorf("%w: status 500", postapi.ErrFetch)
	}
	for _, posts := range c.posts {
		for _, p := range posts {
			if p.ID == id {
				p.Site = c.site
				return &p, nil
			}
		}
	}
	return &entities.Post{ID: id, Site: c.site}, nil
}

// memoryStore is an in-memory FavouritesStore.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string][]entities.FavouriteEntry
	fail    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string][]entities.FavouriteEntry{}}
}

func (s *memoryStore) Has(_ context.Context, userID string, identity entities.PostIdentity) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return false, s.fail
	}
	for _, e := range s.entries[userID] {
		if e.Identity == identity {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) Add(ctx context.Context, userID string, identity entities.PostIdentity) (bool, error) {
	if has, err := s.Has(ctx, userID, identity); err != nil || has {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = append(s.entries[userID], entities.FavouriteEntry{Identity: identity})
	return true, nil
}

func (s *memoryStore) Remove(_ context.Context, userID string, identity entities.PostIdentity) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return false, s.fail
	}
	for i, e := range s.entries[userID] {
		if e.Identity == identity {
			s.entries[userID] = append(s.entries[userID][:i], s.entries[userID][i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) List(_ context.Context, userID string) ([]entities.FavouriteEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	out := make([]entities.FavouriteEntry, len(s.entries[userID]))
	copy(out, s.entries[userID])
	return out, nil
}

func (s *memoryStore) countFor(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries[userID])
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(evt events.FavouriteEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, fmt.Sprintf("%s %s %s", evt.Type, evt.UserID, evt.Identity))
}
