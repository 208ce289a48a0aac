package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSite(t *testing.T) {
	assert.Equal(t, SiteRule34, ParseSite(" Rule34 "))
	assert.Equal(t, SiteGelbooru, ParseSite("GELBOORU"))
	assert.Equal(t, Site(""), ParseSite("  "))
}
