package entities

import (
	"fmt"
	"strings"
	"time"
)

// Site identifies one external imageboard.
type Site string

const (
	SiteRule34    Site = "rule34"
	SiteSafebooru Site = "safebooru"
	SiteGelbooru  Site = "gelbooru"
	SiteXbooru    Site = "xbooru"
)

func (s Site) String() string {
	return string(s)
}

// ParseSite normalises a user-supplied site name.
func ParseSite(name string) Site {
	return Site(strings.ToLower(strings.TrimSpace(name)))
}

// PostIdentity is the cross-site key of a post.
type PostIdentity struct {
	Site   Site  `json:"site"`
	PostID int64 `json:"post_id"`
}

func (p PostIdentity) String() string {
	return fmt.Sprintf("%s#%d", p.Site, p.PostID)
}

// Post is a single remote item. It is never mutated after the owning client
// stamps the site on it.
type Post struct {
	Site       Site       `json:"site"`
	ID         int64      `json:"id"`
	Tags       []string   `json:"tags"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	FileURL    string     `json:"file_url,omitempty"`
	PreviewURL string     `json:"preview_url,omitempty"`
	Source     string     `json:"source,omitempty"`
	Rating     string     `json:"rating,omitempty"`
	Score      int        `json:"score"`
	Width      int        `json:"width,omitempty"`
	Height     int        `json:"height,omitempty"`

	// Extra carries site-specific fields that have no typed home.
	Extra map[string]string `json:"extra,omitempty"`
}

func (p *Post) Identity() PostIdentity {
	return PostIdentity{Site: p.Site, PostID: p.ID}
}

// QueryResult is one page of a remote query.
type QueryResult struct {
	Count  int
	Offset int64
	Posts  []Post
}
