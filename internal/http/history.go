package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HistoryController struct {
	history HistoryReader
}

func NewHistoryController(history HistoryReader) *HistoryController {
	return &HistoryController{history: history}
}

// ListEvents pages through a user's favourite changes, newest first.
// GET /api/users/:user/favourites/history?limit=&offset=
func (hc *HistoryController) ListEvents(c *gin.Context) {
	limit, offset := parsePagination(c, 50, 200)

	records, total, err := hc.history.GetEvents(c.Request.Context(), c.Param("user"), limit, offset)
	if err != nil {
		respondInternalError(c, err, "list favourite history")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(records, total, limit, offset))
}
