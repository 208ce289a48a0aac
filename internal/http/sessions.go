package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/postbrowser/internal/postapi"
	"github.com/mrlokans/postbrowser/internal/session"
)

type SessionsController struct {
	sessions SessionService
}

func NewSessionsController(sessions SessionService) *SessionsController {
	return &SessionsController{sessions: sessions}
}

type CreateSessionRequest struct {
	Site   string `json:"site" binding:"required"`
	Tags   string `json:"tags"`
	UserID string `json:"user_id" binding:"required"`
}

type CreateFavouritesSessionRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type ActionRequest struct {
	Action string `json:"action" binding:"required"`
	UserID string `json:"user_id" binding:"required"`
}

type SessionResponse struct {
	SessionID string          `json:"session_id"`
	OwnerID   string          `json:"owner_id"`
	Render    *session.Render `json:"render"`
}

// CreateQuery opens a browsing session over a tag query.
// POST /api/sessions
func (sc *SessionsController) CreateQuery(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "site and user_id are required")
		return
	}

	sess, render, err := sc.sessions.CreateQuery(c.Request.Context(), req.UserID, req.Site, strings.TrimSpace(req.Tags))
	if err != nil {
		sc.respondCreateError(c, err)
		return
	}

	respondCreated(c, SessionResponse{SessionID: sess.ID(), OwnerID: sess.OwnerID(), Render: render})
}

// CreateFavourites opens a session over the user's favourites.
// POST /api/sessions/favourites
func (sc *SessionsController) CreateFavourites(c *gin.Context) {
	var req CreateFavouritesSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "user_id is required")
		return
	}

	sess, render, err := sc.sessions.CreateFavourites(c.Request.Context(), req.UserID)
	if err != nil {
		sc.respondCreateError(c, err)
		return
	}

	respondCreated(c, SessionResponse{SessionID: sess.ID(), OwnerID: sess.OwnerID(), Render: render})
}

// Current re-renders the session's current page.
// GET /api/sessions/:id
func (sc *SessionsController) Current(c *gin.Context) {
	outcome, err := sc.sessions.Current(c.Request.Context(), c.Param("id"))
	if err != nil {
		sc.respondSessionError(c, err)
		return
	}
	respondOutcome(c, outcome)
}

// Act applies one button action to a session.
// POST /api/sessions/:id/actions
func (sc *SessionsController) Act(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "action and user_id are required")
		return
	}

	outcome, err := sc.sessions.Handle(c.Request.Context(), c.Param("id"), req.UserID, req.Action)
	if err != nil {
		sc.respondSessionError(c, err)
		return
	}
	respondOutcome(c, outcome)
}

// respondOutcome writes an Outcome as-is: exactly one of render, notice or
// deleted is present.
func respondOutcome(c *gin.Context, outcome session.Outcome) {
	c.JSON(http.StatusOK, outcome)
}

func (sc *SessionsController) respondCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, postapi.ErrUnknownSite):
		respondError(c, http.StatusBadRequest, "unknown_site", err.Error())
	case errors.Is(err, postapi.ErrFetch):
		respondError(c, http.StatusBadGateway, "fetch_error", "Error fetching post.")
	default:
		respondInternalError(c, err, "create session")
	}
}

func (sc *SessionsController) respondSessionError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		respondNotFound(c, "session")
		return
	}
	respondInternalError(c, err, "session action")
}
