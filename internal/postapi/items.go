package postapi

import (
	"encoding/xml"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mrlokans/postbrowser/internal/entities"
)

// ItemDecoder turns a raw query response body into a QueryResult.
type ItemDecoder func(body []byte) (*entities.QueryResult, error)

// attributePosts is the classic dapi shape where every post field is an
// attribute on a self-closing <post/> element.
type attributePosts struct {
	XMLName xml.Name        `xml:"posts"`
	Count   int             `xml:"count,attr"`
	Offset  int64           `xml:"offset,attr"`
	Posts   []attributePost `xml:"post"`
}

type attributePost struct {
	ID         int64  `xml:"id,attr"`
	Tags       string `xml:"tags,attr"`
	FileURL    string `xml:"file_url,attr"`
	PreviewURL string `xml:"preview_url,attr"`
	SampleURL  string `xml:"sample_url,attr"`
	Source     string `xml:"source,attr"`
	Rating     string `xml:"rating,attr"`
	Score      int    `xml:"score,attr"`
	Width      int    `xml:"width,attr"`
	Height     int    `xml:"height,attr"`
	MD5        string `xml:"md5,attr"`
	CreatedAt  string `xml:"created_at,attr"`
}

// elementPosts is the newer dapi shape where post fields are child elements.
type elementPosts struct {
	XMLName xml.Name      `xml:"posts"`
	Count   int           `xml:"count,attr"`
	Offset  int64         `xml:"offset,attr"`
	Posts   []elementPost `xml:"post"`
}

type elementPost struct {
	ID         int64  `xml:"id"`
	Tags       string `xml:"tags"`
	FileURL    string `xml:"file_url"`
	PreviewURL string `xml:"preview_url"`
	SampleURL  string `xml:"sample_url"`
	Source     string `xml:"source"`
	Rating     string `xml:"rating"`
	Score      int    `xml:"score"`
	Width      int    `xml:"width"`
	Height     int    `xml:"height"`
	MD5        string `xml:"md5"`
	Owner      string `xml:"owner"`
	CreatedAt  string `xml:"created_at"`
}

// DecodeAttributePosts decodes attribute-style responses. When timeLayout is
// non-empty the created_at attribute is parsed with it.
func DecodeAttributePosts(timeLayout string) ItemDecoder {
	return func(body []byte) (*entities.QueryResult, error) {
		var raw attributePosts
		if err := xml.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("decode posts: %w", err)
		}

		result := &entities.QueryResult{Count: raw.Count, Offset: raw.Offset}
		for _, p := range raw.Posts {
			post := entities.Post{
				ID:         p.ID,
				Tags:       strings.Fields(p.Tags),
				FileURL:    p.FileURL,
				PreviewURL: p.PreviewURL,
				Source:     p.Source,
				Rating:     p.Rating,
				Score:      p.Score,
				Width:      p.Width,
				Height:     p.Height,
				Extra:      extraFields("md5", p.MD5, "sample_url", p.SampleURL),
			}
			if timeLayout != "" {
				post.CreatedAt = parseCreatedAt(timeLayout, p.CreatedAt, p.ID)
			}
			result.Posts = append(result.Posts, post)
		}
		return result, nil
	}
}

// DecodeElementPosts decodes element-style responses.
func DecodeElementPosts(timeLayout string) ItemDecoder {
	return func(body []byte) (*entities.QueryResult, error) {
		var raw elementPosts
		if err := xml.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("decode posts: %w", err)
		}

		result := &entities.QueryResult{Count: raw.Count, Offset: raw.Offset}
		for _, p := range raw.Posts {
			post := entities.Post{
				ID:         p.ID,
				Tags:       strings.Fields(p.Tags),
				FileURL:    p.FileURL,
				PreviewURL: p.PreviewURL,
				Source:     p.Source,
				Rating:     p.Rating,
				Score:      p.Score,
				Width:      p.Width,
				Height:     p.Height,
				Extra:      extraFields("md5", p.MD5, "sample_url", p.SampleURL, "owner", p.Owner),
			}
			if timeLayout != "" {
				post.CreatedAt = parseCreatedAt(timeLayout, p.CreatedAt, p.ID)
			}
			result.Posts = append(result.Posts, post)
		}
		return result, nil
	}
}

// parseCreatedAt tolerates missing or odd timestamps; the post is still usable without one.
func parseCreatedAt(layout, value string, postID int64) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		log.Printf("[SITE] Ignoring unparseable created_at %q on post %d: %v", value, postID, err)
		return nil
	}
	return &t
}

func extraFields(kv ...string) map[string]string {
	var extra map[string]string
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[kv[i]] = kv[i+1]
	}
	return extra
}
