package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/postbrowser/internal/postapi"
)

type SitesController struct {
	sites SiteDirectory
}

func NewSitesController(sites SiteDirectory) *SitesController {
	return &SitesController{sites: sites}
}

type SiteInfo struct {
	Site         string `json:"site"`
	DisplayName  string `json:"display_name"`
	Autocomplete bool   `json:"autocomplete"`
	MaxCount     int    `json:"max_count,omitempty"`
}

type AutocompleteResponse struct {
	Suggestions []postapi.Suggestion `json:"suggestions"`
}

// ListSites returns every registered site and its capabilities.
// GET /api/sites
func (sc *SitesController) ListSites(c *gin.Context) {
	clients := sc.sites.Clients()
	sites := make([]SiteInfo, 0, len(clients))
	for _, client := range clients {
		info := SiteInfo{
			Site:         client.Site().String(),
			DisplayName:  client.DisplayName(),
			Autocomplete: client.HasAutocomplete(),
		}
		if max, ok := client.MaxCount(); ok {
			info.MaxCount = max
		}
		sites = append(sites, info)
	}
	c.JSON(http.StatusOK, gin.H{"sites": sites})
}

// Autocomplete suggests tag completions for the last word of q. Upstream
// failures degrade to an empty list.
// GET /api/sites/:site/autocomplete?q=
func (sc *SitesController) Autocomplete(c *gin.Context) {
	client, err := sc.sites.Lookup(c.Param("site"))
	if err != nil {
		respondNotFound(c, "site")
		return
	}
	if !client.HasAutocomplete() {
		respondError(c, http.StatusBadRequest, "autocomplete_unsupported", client.DisplayName()+" does not support autocomplete")
		return
	}

	suggestions, err := client.Autocomplete(c.Request.Context(), c.Query("q"))
	if err != nil {
		if errors.Is(err, postapi.ErrAutocompleteUnsupported) {
			respondError(c, http.StatusBadRequest, "autocomplete_unsupported", err.Error())
			return
		}
		log.Printf("[SITE] %s: autocomplete degraded to empty: %v", client.Site(), err)
		suggestions = nil
	}
	if suggestions == nil {
		suggestions = []postapi.Suggestion{}
	}

	c.JSON(http.StatusOK, AutocompleteResponse{Suggestions: suggestions})
}
