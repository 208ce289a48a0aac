package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/postbrowser/internal/database"
	"github.com/mrlokans/postbrowser/internal/database/favourites"
	"github.com/mrlokans/postbrowser/internal/entities"
	"github.com/mrlokans/postbrowser/internal/postapi"
)

const defaultTestTimeout = 5 * time.Second

func testRegistry(t *testing.T) *postapi.Registry {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("tags") == "none":
			_, _ = w.Write([]byte(`<posts count="0" offset="0"></posts>`))
		case q.Get("limit") == "0":
			_, _ = w.Write([]byte(`<posts count="1500" offset="0"></posts>`))
		case q.Get("id") != "":
			_, _ = fmt.Fprintf(w, `<posts count="1" offset="0"><post id="%s" tags="by_id" score="7"/></posts>`, q.Get("id"))
		default:
			_, _ = fmt.Fprintf(w, `<posts count="1500" offset="%[1]s"><post id="5%[1]s" tags="cat cute" rating="s" score="2048" file_url="https://img.example/a.png"/></posts>`, q.Get("pid"))
		}
	}))
	t.Cleanup(server.Close)

	return postapi.NewRegistry(postapi.NewGenericClient(postapi.SiteConfig{
		Site:        entities.SiteRule34,
		DisplayName: "Rule34",
		BaseURL:     server.URL + "/",
		MaxCount:    1000,
	}, postapi.Options{HTTPClient: server.Client()}))
}

func TestFetchCommand_ParseFlags(t *testing.T) {
	cmd := NewFetchCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-site", "gelbooru", "-tags", "cat cute", "-page", "4"}))

	assert.Equal(t, "gelbooru", cmd.Site)
	assert.Equal(t, "cat cute", cmd.Tags)
	assert.Equal(t, 4, cmd.Page)
	assert.Zero(t, cmd.ID)

	assert.Error(t, NewFetchCommand().ParseFlags([]string{"-page", "-1"}))
}

func TestFetchCommand_ByTags(t *testing.T) {
	var out bytes.Buffer
	cmd := &FetchCommand{Site: "rule34", Tags: "cat", Page: 1002, Timeout: defaultTestTimeout, Registry: testRegistry(t), Out: &out}

	require.NoError(t, cmd.Run())

	// Count is capped at 1000, so page 1002 wraps to 2.
	assert.Contains(t, out.String(), "Rule34 #52 (3 of 1,000)")
	assert.Contains(t, out.String(), "Score:  2,048")
	assert.Contains(t, out.String(), "Tags:   cat cute")
	assert.Contains(t, out.String(), "index.php?page=post&s=view&id=52")
}

func TestFetchCommand_ByID(t *testing.T) {
	var out bytes.Buffer
	cmd := &FetchCommand{Site: "rule34", ID: 99, Timeout: defaultTestTimeout, Registry: testRegistry(t), Out: &out}

	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "Rule34 #99\n")
	assert.Contains(t, out.String(), "Tags:   by_id")
}

func TestFetchCommand_NoResults(t *testing.T) {
	var out bytes.Buffer
	cmd := &FetchCommand{Site: "rule34", Tags: "none", Timeout: defaultTestTimeout, Registry: testRegistry(t), Out: &out}

	require.NoError(t, cmd.Run())
	assert.Equal(t, "No posts found for Rule34: none.\n", out.String())
}

func TestFetchCommand_UnknownSite(t *testing.T) {
	cmd := &FetchCommand{Site: "nowhere", Timeout: defaultTestTimeout, Registry: testRegistry(t), Out: &bytes.Buffer{}}

	assert.ErrorIs(t, cmd.Run(), postapi.ErrUnknownSite)
}

func TestFavouritesCommand_ParseFlags(t *testing.T) {
	assert.Error(t, NewFavouritesCommand().ParseFlags(nil))

	cmd := NewFavouritesCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-user", "alice", "-db", "x.db"}))
	assert.Equal(t, "alice", cmd.UserID)
	assert.Equal(t, "x.db", cmd.DatabasePath)
}

func TestFavouritesCommand_Run(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "favs.db")
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	repo := favourites.NewRepository(db.DB)
	_, err = repo.Add(context.Background(), "alice", entities.PostIdentity{Site: entities.SiteRule34, PostID: 1})
	require.NoError(t, err)
	_, err = repo.Add(context.Background(), "alice", entities.PostIdentity{Site: entities.SiteGelbooru, PostID: 2})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	var out bytes.Buffer
	cmd := &FavouritesCommand{UserID: "alice", DatabasePath: dbPath, Out: &out}
	require.NoError(t, cmd.Run())

	assert.Contains(t, out.String(), "Favourites of alice (2):")
	assert.Contains(t, out.String(), "1. rule34#1")
	assert.Contains(t, out.String(), "2. gelbooru#2")

	out.Reset()
	cmd.UserID = "bob"
	require.NoError(t, cmd.Run())
	assert.Equal(t, "bob has no favourites.\n", out.String())
}
