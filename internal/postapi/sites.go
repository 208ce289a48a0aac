package postapi

import "github.com/mrlokans/postbrowser/internal/entities"

const rule34TimeLayout = "Mon Jan 02 15:04:05 -0700 2006"

// SiteConfig describes one site for the generic client.
type SiteConfig struct {
	Site        entities.Site
	DisplayName string
	// BaseURL must end with a slash; "index.php" is appended for queries.
	BaseURL string
	// Autocomplete reports whether the site offers tag suggestions.
	Autocomplete bool
	// AutocompleteBaseURL overrides BaseURL for "autocomplete.php" when the
	// site serves suggestions from another host.
	AutocompleteBaseURL string
	// ViewBaseURL overrides BaseURL for links to post pages.
	ViewBaseURL string
	// MaxCount caps the number of pageable results; zero means uncapped.
	MaxCount int
	Decode   ItemDecoder
}

func (c SiteConfig) autocompleteBase() string {
	if c.AutocompleteBaseURL != "" {
		return c.AutocompleteBaseURL
	}
	return c.BaseURL
}

func (c SiteConfig) viewBase() string {
	if c.ViewBaseURL != "" {
		return c.ViewBaseURL
	}
	return c.BaseURL
}

// DefaultSites returns the built-in site table.
func DefaultSites() []SiteConfig {
	return []SiteConfig{
		{
			Site:                entities.SiteRule34,
			DisplayName:         "Rule34",
			BaseURL:             "https://api.rule34.xxx/",
			Autocomplete:        true,
			AutocompleteBaseURL: "https://ac.rule34.xxx/",
			ViewBaseURL:         "https://rule34.xxx/",
			Decode:              DecodeAttributePosts(rule34TimeLayout),
		},
		{
			Site:         entities.SiteSafebooru,
			DisplayName:  "Safebooru",
			BaseURL:      "https://safebooru.org/",
			Autocomplete: true,
			Decode:       DecodeAttributePosts(""),
		},
		{
			Site:        entities.SiteGelbooru,
			DisplayName: "Gelbooru",
			BaseURL:     "https://gelbooru.com/",
			MaxCount:    20000,
			Decode:      DecodeElementPosts(rule34TimeLayout),
		},
		{
			Site:        entities.SiteXbooru,
			DisplayName: "Xbooru",
			BaseURL:     "https://xbooru.com/",
			Decode:      DecodeAttributePosts(""),
		},
	}
}
