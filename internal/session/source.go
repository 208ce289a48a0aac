package session

import (
	"context"
	"fmt"

	"github.com/mrlokans/postbrowser/internal/entities"
	"github.com/mrlokans/postbrowser/internal/postapi"
)

// PostSource is what a session pages through. Implementations decide how the
// total is known and how the item at a page is resolved.
type PostSource interface {
	// Count returns how many pages exist right now.
	Count(ctx context.Context) (int, error)
	// PostAt resolves the item at page. A nil post means nothing is there.
	PostAt(ctx context.Context, page int) (*entities.Post, error)
	// Title labels the display.
	Title() string
	// PostURL links to the post on its site.
	PostURL(post *entities.Post) string
}

// closer is implemented by sources holding subscriptions.
type closer interface {
	Close()
}

// QuerySource pages through the results of one tag query on one site.
type QuerySource struct {
	client postapi.Client
	tags   string
}

func NewQuerySource(client postapi.Client, tags string) *QuerySource {
	return &QuerySource{client: client, tags: tags}
}

// Count asks the site for the match total, clamped to the site's cap.
func (q *QuerySource) Count(ctx context.Context) (int, error) {
	count, err := q.client.FetchCount(ctx, q.tags)
	if err != nil {
		return 0, err
	}
	if max, ok := q.client.MaxCount(); ok && count > max {
		count = max
	}
	if count < 0 {
		count = 0
	}
	return count, nil
}

func (q *QuerySource) PostAt(ctx context.Context, page int) (*entities.Post, error) {
	return q.client.FetchByTagsAndPage(ctx, q.tags, page)
}

func (q *QuerySource) Title() string {
	if q.tags == "" {
		return q.client.DisplayName()
	}
	return fmt.Sprintf("%s: %s", q.client.DisplayName(), q.tags)
}

func (q *QuerySource) PostURL(post *entities.Post) string {
	return q.client.PostURL(post.ID)
}
