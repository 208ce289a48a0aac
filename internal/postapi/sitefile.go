package postapi

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/postbrowser/internal/entities"
)

// Payload shapes accepted in a site file.
const (
	FormatAttribute = "attribute"
	FormatElement   = "element"
)

// SiteFile lists extra sites that speak the dapi protocol.
type SiteFile struct {
	Sites []SiteEntry `yaml:"sites"`
}

type SiteEntry struct {
	Site                string `yaml:"site"`
	DisplayName         string `yaml:"display_name"`
	BaseURL             string `yaml:"base_url"`
	Autocomplete        bool   `yaml:"autocomplete"`
	AutocompleteBaseURL string `yaml:"autocomplete_base_url"`
	ViewBaseURL         string `yaml:"view_base_url"`
	MaxCount            int    `yaml:"max_count"`
	Format              string `yaml:"format"`
	TimeLayout          string `yaml:"time_layout"`
}

// LoadSiteFile reads site definitions from a YAML file.
func LoadSiteFile(path string) ([]SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site file: %w", err)
	}
	return ParseSiteFile(data)
}

// LoadExtraSites loads path when set; an empty path yields no sites.
func LoadExtraSites(path string) ([]SiteConfig, error) {
	if path == "" {
		return nil, nil
	}
	return LoadSiteFile(path)
}

// ParseSiteFile decodes and validates site definitions.
func ParseSiteFile(data []byte) ([]SiteConfig, error) {
	var file SiteFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse site file: %w", err)
	}

	seen := make(map[string]bool, len(file.Sites))
	configs := make([]SiteConfig, 0, len(file.Sites))
	for i, entry := range file.Sites {
		cfg, err := entry.config()
		if err != nil {
			return nil, fmt.Errorf("sites[%d]: %w", i, err)
		}
		if seen[cfg.Site.String()] {
			return nil, fmt.Errorf("sites[%d]: duplicate site %q", i, cfg.Site)
		}
		seen[cfg.Site.String()] = true
		configs = append(configs, cfg)
	}
	return configs, nil
}

func (e SiteEntry) config() (SiteConfig, error) {
	site := entities.ParseSite(e.Site)
	if site == "" {
		return SiteConfig{}, errors.New("site is required")
	}
	if e.BaseURL == "" {
		return SiteConfig{}, errors.New("base_url is required")
	}
	if e.MaxCount < 0 {
		return SiteConfig{}, errors.New("max_count must not be negative")
	}

	cfg := SiteConfig{
		Site:                site,
		DisplayName:         e.DisplayName,
		BaseURL:             withSlash(e.BaseURL),
		Autocomplete:        e.Autocomplete,
		AutocompleteBaseURL: withSlash(e.AutocompleteBaseURL),
		ViewBaseURL:         withSlash(e.ViewBaseURL),
		MaxCount:            e.MaxCount,
	}

	switch e.Format {
	case "", FormatAttribute:
		cfg.Decode = DecodeAttributePosts(e.TimeLayout)
	case FormatElement:
		cfg.Decode = DecodeElementPosts(e.TimeLayout)
	default:
		return SiteConfig{}, fmt.Errorf("unknown format %q (want %s or %s)", e.Format, FormatAttribute, FormatElement)
	}
	return cfg, nil
}

func withSlash(u string) string {
	if u == "" || strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
