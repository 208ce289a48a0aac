package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the favourites database
	DefaultDatabasePath = "./postbrowser.db"

	// DefaultUserAgent is sent with every request to an external site
	DefaultUserAgent = "PostBrowser/1.0 (https://github.com/mrlokans/postbrowser)"

	// MaxAutocompleteSuggestions is the most suggestions a chat client will show
	MaxAutocompleteSuggestions = 25
)
