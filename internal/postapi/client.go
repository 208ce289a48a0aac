// Package postapi talks to imageboard sites that expose the common
// "dapi" XML endpoint.
//
// One GenericClient serves every site; what differs between sites (base URL,
// result item shape, autocomplete endpoint, result caps) is carried by a
// SiteConfig value rather than a separate implementation.
//
// # Usage
//
//	registry, err := postapi.NewDefaultRegistry(postapi.Options{UserAgent: ua}, nil)
//	client, err := registry.Get(entities.SiteSafebooru)
//	count, err := client.FetchCount(ctx, "cat")
//	post, err := client.FetchByTagsAndPage(ctx, "cat", 2)
package postapi

import (
	"context"
	"errors"

	"github.com/mrlokans/postbrowser/internal/entities"
)

// ErrFetch is returned for any failure to obtain or parse a result from a site.
var ErrFetch = errors.New("error fetching post")

// ErrAutocomplete is returned when autocomplete suggestions cannot be loaded.
var ErrAutocomplete = errors.New("error fetching autocomplete suggestions")

// ErrAutocompleteUnsupported is returned when a site without autocomplete is asked for suggestions.
var ErrAutocompleteUnsupported = errors.New("site does not support autocomplete")

// ErrUnknownSite indicates a site name that is not registered.
var ErrUnknownSite = errors.New("unknown site")

// Suggestion is one autocomplete choice: Name is shown to the user, Value is
// the complete query string to submit.
type Suggestion struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Client is the capability set every site offers.
//
// Fetch methods return a nil post and a nil error when the site has no match.
type Client interface {
	Site() entities.Site
	DisplayName() string
	FetchByID(ctx context.Context, id int64) (*entities.Post, error)
	FetchByTagsAndPage(ctx context.Context, tags string, page int) (*entities.Post, error)
	FetchCount(ctx context.Context, tags string) (int, error)
	HasAutocomplete() bool
	Autocomplete(ctx context.Context, input string) ([]Suggestion, error)
	// MaxCount reports the most items the site will page through, if capped.
	MaxCount() (int, bool)
	// PostURL links to the human-facing page of a post.
	PostURL(id int64) string
}
