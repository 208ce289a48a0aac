package http

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/postbrowser/internal/entities"
	"github.com/mrlokans/postbrowser/internal/events"
)

type FavouritesController struct {
	store  FavouritesStore
	events events.Publisher
	now    func() time.Time
}

func NewFavouritesController(store FavouritesStore, publisher events.Publisher) *FavouritesController {
	return &FavouritesController{store: store, events: publisher, now: time.Now}
}

type FavouriteResponse struct {
	Site    entities.Site `json:"site"`
	PostID  int64         `json:"post_id"`
	AddedAt time.Time     `json:"added_at"`
	Added   string        `json:"added"`
}

// ListFavourites returns a user's favourites in the order they were added.
// GET /api/users/:user/favourites
func (fc *FavouritesController) ListFavourites(c *gin.Context) {
	userID := c.Param("user")

	entries, err := fc.store.List(c.Request.Context(), userID)
	if err != nil {
		respondInternalError(c, err, "list favourites")
		return
	}

	now := fc.now()
	favourites := make([]FavouriteResponse, 0, len(entries))
	for _, e := range entries {
		favourites = append(favourites, FavouriteResponse{
			Site:    e.Identity.Site,
			PostID:  e.Identity.PostID,
			AddedAt: e.AddedAt,
			Added:   humanize.RelTime(e.AddedAt, now, "ago", "from now"),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":    userID,
		"favourites": favourites,
		"count":      len(favourites),
	})
}

// RemoveFavourite deletes one favourite and notifies open sessions.
// DELETE /api/users/:user/favourites/:site/:post_id
func (fc *FavouritesController) RemoveFavourite(c *gin.Context) {
	postID, ok := parsePostIDParam(c, "post_id")
	if !ok {
		return
	}
	userID := c.Param("user")
	identity := entities.PostIdentity{Site: entities.ParseSite(c.Param("site")), PostID: postID}

	removed, err := fc.store.Remove(c.Request.Context(), userID, identity)
	if err != nil {
		respondInternalError(c, err, "remove favourite")
		return
	}
	if !removed {
		respondNotFound(c, "favourite")
		return
	}

	if fc.events != nil {
		fc.events.Publish(events.FavouriteEvent{
			Type:     entities.FavouriteRemoved,
			UserID:   userID,
			Identity: identity,
		})
	}
	respondSuccess(c, "favourite removed")
}
