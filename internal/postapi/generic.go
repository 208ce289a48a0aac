package postapi

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/mrlokans/postbrowser/internal/entities"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// Options holds settings shared by every site client.
type Options struct {
	// HTTPClient is shared across sites so connections are pooled. Nil means a
	// new client with RequestTimeout.
	HTTPClient      *http.Client
	UserAgent       string
	RequestTimeout  time.Duration
	RequestInterval time.Duration
	MaxSuggestions  int
}

// GenericClient implements Client for any site described by a SiteConfig.
type GenericClient struct {
	cfg            SiteConfig
	httpClient     *http.Client
	limiter        *rate.Limiter
	userAgent      string
	maxSuggestions int
}

// NewGenericClient creates a client for one site.
func NewGenericClient(cfg SiteConfig, opts Options) *GenericClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.RequestInterval), 1)
	}

	maxSuggestions := opts.MaxSuggestions
	if maxSuggestions <= 0 {
		maxSuggestions = 25
	}

	if cfg.Decode == nil {
		cfg.Decode = DecodeAttributePosts("")
	}

	return &GenericClient{
		cfg:            cfg,
		httpClient:     httpClient,
		limiter:        limiter,
		userAgent:      opts.UserAgent,
		maxSuggestions: maxSuggestions,
	}
}

func (c *GenericClient) Site() entities.Site {
	return c.cfg.Site
}

func (c *GenericClient) DisplayName() string {
	if c.cfg.DisplayName != "" {
		return c.cfg.DisplayName
	}
	return c.cfg.Site.String()
}

func (c *GenericClient) HasAutocomplete() bool {
	return c.cfg.Autocomplete
}

func (c *GenericClient) MaxCount() (int, bool) {
	if c.cfg.MaxCount > 0 {
		return c.cfg.MaxCount, true
	}
	return 0, false
}

func (c *GenericClient) PostURL(id int64) string {
	return c.cfg.viewBase() + "index.php?page=post&s=view&id=" + strconv.FormatInt(id, 10)
}

// FetchCount returns the total number of posts matching tags.
func (c *GenericClient) FetchCount(ctx context.Context, tags string) (int, error) {
	result, err := c.query(ctx, url.Values{
		"limit": {"0"},
		"tags":  {tags},
	})
	if err != nil {
		return 0, err
	}
	return result.Count, nil
}

// FetchByID returns the post with the given id, or nil if the site has none.
func (c *GenericClient) FetchByID(ctx context.Context, id int64) (*entities.Post, error) {
	result, err := c.query(ctx, url.Values{
		"limit": {"1"},
		"id":    {strconv.FormatInt(id, 10)},
	})
	if err != nil {
		return nil, err
	}
	return c.firstPost(result), nil
}

// FetchByTagsAndPage returns the single post at page for tags. Each remote
// page holds exactly one post, so page doubles as an item index.
func (c *GenericClient) FetchByTagsAndPage(ctx context.Context, tags string, page int) (*entities.Post, error) {
	if page < 0 {
		page = 0
	}
	result, err := c.query(ctx, url.Values{
		"limit": {"1"},
		"tags":  {tags},
		"pid":   {strconv.Itoa(page)},
	})
	if err != nil {
		return nil, err
	}
	return c.firstPost(result), nil
}

// firstPost stamps the owning site, which the payload never carries.
func (c *GenericClient) firstPost(result *entities.QueryResult) *entities.Post {
	if len(result.Posts) == 0 {
		return nil
	}
	post := result.Posts[0]
	post.Site = c.cfg.Site
	return &post
}

func (c *GenericClient) query(ctx context.Context, params url.Values) (*entities.QueryResult, error) {
	params.Set("page", "dapi")
	params.Set("s", "post")
	params.Set("q", "index")
	requestURL := c.cfg.BaseURL + "index.php?" + params.Encode()

	body, err := c.get(ctx, requestURL)
	if err != nil {
		log.Printf("[SITE] %s: %v", c.cfg.Site, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, c.cfg.Site, err)
	}

	result, err := c.cfg.Decode(body)
	if err != nil {
		log.Printf("[SITE] %s: %v", c.cfg.Site, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, c.cfg.Site, err)
	}
	return result, nil
}

// get performs one rate-limited GET and returns the body of a 200 response.
func (c *GenericClient) get(ctx context.Context, requestURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
