// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Site Access
//
//   - postapi.Client: one imageboard's query, lookup and autocomplete API (internal/postapi/client.go)
//   - session.SiteResolver: resolves a site name to its client (internal/session/favourites_source.go)
//   - http.SiteDirectory: lists clients for the sites endpoint (internal/http/stores.go)
//
// ## Sessions
//
//   - session.PostSource: what a session pages through; QuerySource for tag
//     queries and FavouritesSource for a user's favourites (internal/session/source.go)
//   - http.SessionService: creates and drives sessions (internal/http/stores.go)
//
// ## Favourites
//
//   - session.FavouritesStore: Has/Add/Remove/List per user and post identity
//     (internal/session/session.go)
//   - http.FavouritesStore: list and remove for the REST surface
//
// ## Events and Background Work
//
//   - events.Publisher / session.Subscriber: favourite change fan-out
//   - tasks.FavouriteEventRecorder / tasks.FavouriteHistoryCleaner: history
//     writes and retention run on the task queue
//
// # Adding a New Site
//
// Sites that speak the dapi XML protocol only need a postapi.SiteConfig entry
// in postapi.DefaultSites. A site with a different protocol implements
// postapi.Client and is passed to postapi.NewRegistry.
//
// checks.go holds compile-time assertions tying implementations to these interfaces.
package interfaces
