package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.SessionCounter, cfg.HistoryQueue, cfg.Version)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Session endpoints
	if cfg.Sessions != nil {
		sessionsController := NewSessionsController(cfg.Sessions)
		router.POST("/api/sessions", sessionsController.CreateQuery)
		router.POST("/api/sessions/favourites", sessionsController.CreateFavourites)
		router.GET("/api/sessions/:id", sessionsController.Current)
		router.POST("/api/sessions/:id/actions", sessionsController.Act)
	}

	// Site endpoints
	if cfg.Sites != nil {
		sitesController := NewSitesController(cfg.Sites)
		router.GET("/api/sites", sitesController.ListSites)
		router.GET("/api/sites/:site/autocomplete", sitesController.Autocomplete)
	}

	// Favourites endpoints
	if cfg.FavouritesStore != nil {
		favouritesController := NewFavouritesController(cfg.FavouritesStore, cfg.Events)
		router.GET("/api/users/:user/favourites", favouritesController.ListFavourites)
		router.DELETE("/api/users/:user/favourites/:site/:post_id", favouritesController.RemoveFavourite)
	}

	// Favourite history endpoints
	if cfg.History != nil {
		historyController := NewHistoryController(cfg.History)
		router.GET("/api/users/:user/favourites/history", historyController.ListEvents)
	}

	return router
}
