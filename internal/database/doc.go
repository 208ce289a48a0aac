// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── favourites/      # Per-user favourite posts
//	└── history/         # Favourite add/remove history
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./postbrowser.db")
//
//	favouritesRepo := favourites.NewRepository(db.DB)
//	historyRepo := history.NewRepository(db.DB)
//
//	added, err := favouritesRepo.Add(ctx, userID, identity)
//
// The *gorm.DB held by Database is a pooled, concurrency-safe handle shared by
// every repository; repositories never open their own connections.
package database
