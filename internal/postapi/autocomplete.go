package postapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

type autocompleteEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Autocomplete suggests completions for the last tag of input.
func (c *GenericClient) Autocomplete(ctx context.Context, input string) ([]Suggestion, error) {
	if !c.cfg.Autocomplete {
		return nil, ErrAutocompleteUnsupported
	}

	prefix, token := SplitLastTag(input)
	if token == "" {
		return []Suggestion{}, nil
	}

	requestURL := c.cfg.autocompleteBase() + "autocomplete.php?q=" + url.QueryEscape(token)
	body, err := c.get(ctx, requestURL)
	if err != nil {
		log.Printf("[SITE] %s autocomplete: %v", c.cfg.Site, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrAutocomplete, c.cfg.Site, err)
	}

	var entries []autocompleteEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		log.Printf("[SITE] %s autocomplete: decode: %v", c.cfg.Site, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrAutocomplete, c.cfg.Site, err)
	}

	return buildSuggestions(prefix, entries, c.maxSuggestions), nil
}

// SplitLastTag splits input into everything before the last tag and the
// last tag itself. Trailing whitespace means the user finished the last tag,
// so the returned token is empty.
func SplitLastTag(input string) (prefix, token string) {
	last, _ := utf8.DecodeLastRuneInString(input)
	if input == "" || unicode.IsSpace(last) {
		return input, ""
	}
	idx := strings.LastIndexFunc(input, unicode.IsSpace)
	if idx < 0 {
		return "", input
	}
	_, size := utf8.DecodeRuneInString(input[idx:])
	return input[:idx+size], input[idx+size:]
}

func buildSuggestions(prefix string, entries []autocompleteEntry, limit int) []Suggestion {
	suggestions := make([]Suggestion, 0, min(len(entries), limit))
	for _, e := range entries {
		if len(suggestions) == limit {
			break
		}
		if e.Value == "" {
			continue
		}
		label := e.Label
		if label == "" {
			label = e.Value
		}
		suggestions = append(suggestions, Suggestion{
			Name:  prefix + label,
			Value: prefix + e.Value,
		})
	}
	return suggestions
}
