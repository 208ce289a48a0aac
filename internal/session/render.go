package session

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mrlokans/postbrowser/internal/entities"
)

// Field and text limits follow the chat platform's embed constraints.
const (
	maxFieldValueLength = 1024
	maxTitleLength      = 256
)

// Render is the display payload for the current page.
type Render struct {
	Content    string   `json:"content,omitempty"`
	Embed      *Embed   `json:"embed,omitempty"`
	Components []Button `json:"components"`
	Page       int      `json:"page"`
	Count      int      `json:"count"`
}

type Embed struct {
	Title       string       `json:"title"`
	URL         string       `json:"url,omitempty"`
	Description string       `json:"description,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      string       `json:"footer,omitempty"`
	Timestamp   *time.Time   `json:"timestamp,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type ButtonStyle string

const (
	ButtonPrimary   ButtonStyle = "primary"
	ButtonSecondary ButtonStyle = "secondary"
	ButtonSuccess   ButtonStyle = "success"
	ButtonDanger    ButtonStyle = "danger"
)

type Button struct {
	Action Action      `json:"action"`
	Label  string      `json:"label"`
	Style  ButtonStyle `json:"style"`
}

// Controls is the fixed button row shown under every display.
func Controls() []Button {
	return []Button{
		{Action: ActionPreviousPage, Label: "Previous", Style: ButtonPrimary},
		{Action: ActionRandomPage, Label: "Random", Style: ButtonSecondary},
		{Action: ActionNextPage, Label: "Next", Style: ButtonPrimary},
		{Action: ActionAddFavourite, Label: "Favourite", Style: ButtonSuccess},
		{Action: ActionRemoveFavourite, Label: "Unfavourite", Style: ButtonSecondary},
		{Action: ActionDelete, Label: "Delete", Style: ButtonDanger},
	}
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
}

func isVideo(fileURL string) bool {
	ext := strings.ToLower(path.Ext(strings.SplitN(fileURL, "?", 2)[0]))
	return videoExtensions[ext]
}

// buildRender lays out post for page out of count. A nil post renders the
// empty-result message.
func buildRender(src PostSource, post *entities.Post, page, count int, now time.Time) *Render {
	r := &Render{
		Components: Controls(),
		Page:       page,
		Count:      count,
	}

	if post == nil {
		r.Content = fmt.Sprintf("No posts found for %s.", src.Title())
		return r
	}

	embed := &Embed{
		Title:  truncate(src.Title(), maxTitleLength),
		URL:    src.PostURL(post),
		Footer: fmt.Sprintf("%s #%d · %s of %s", post.Site, post.ID, humanize.Comma(int64(page+1)), humanize.Comma(int64(count))),
	}

	// Embeds cannot play video, so the raw link goes in the message body where
	// the client will inline a player.
	if isVideo(post.FileURL) {
		r.Content = post.FileURL
	} else {
		embed.ImageURL = post.FileURL
	}

	if post.CreatedAt != nil {
		created := *post.CreatedAt
		embed.Timestamp = &created
		embed.Description = "Posted " + humanize.RelTime(created, now, "ago", "from now")
	}

	if len(post.Tags) > 0 {
		embed.Fields = append(embed.Fields, EmbedField{
			Name:  "Tags",
			Value: truncate(strings.Join(post.Tags, " "), maxFieldValueLength),
		})
	}
	embed.Fields = append(embed.Fields, EmbedField{Name: "Score", Value: humanize.Comma(int64(post.Score)), Inline: true})
	if post.Rating != "" {
		embed.Fields = append(embed.Fields, EmbedField{Name: "Rating", Value: post.Rating, Inline: true})
	}
	if post.Source != "" {
		embed.Fields = append(embed.Fields, EmbedField{Name: "Source", Value: truncate(post.Source, maxFieldValueLength), Inline: true})
	}

	r.Embed = embed
	return r
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
