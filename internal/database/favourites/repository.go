// Package favourites provides database operations for favourite post management.
//
// This package implements the session.FavouritesStore interface.
//
// # Interface Implementation
//
//	var _ session.FavouritesStore = (*Repository)(nil)
//
// # Usage
//
//	repo := favourites.NewRepository(db)
//	added, err := repo.Add(ctx, "1234", entities.PostIdentity{Site: entities.SiteRule34, PostID: 42})
//	entries, err := repo.List(ctx, "1234")
package favourites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/postbrowser/internal/entities"
)

// ErrStorage wraps every failure to read or write favourites.
var ErrStorage = errors.New("error storing favourite")

// Repository handles all favourites database operations.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a new favourites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

func identityScope(userID string, identity entities.PostIdentity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND post_id = ? AND site = ?", userID, identity.PostID, identity.Site)
	}
}

// Has reports whether the user has favourited the post.
func (r *Repository) Has(ctx context.Context, userID string, identity entities.PostIdentity) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Favourite{}).
		Scopes(identityScope(userID, identity)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: check favourite: %v", ErrStorage, err)
	}
	return count > 0, nil
}

// Add stores the favourite unless it already exists and reports whether a row
// was inserted. The unique index on (user_id, post_id, site) makes repeated
// or concurrent adds collapse into one row.
func (r *Repository) Add(ctx context.Context, userID string, identity entities.PostIdentity) (bool, error) {
	favourite := &entities.Favourite{
		UserID:    userID,
		PostID:    identity.PostID,
		Site:      identity.Site,
		CreatedAt: r.now(),
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(favourite)
	if result.Error != nil {
		return false, fmt.Errorf("%w: add favourite: %v", ErrStorage, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Remove deletes the favourite and reports whether it existed.
func (r *Repository) Remove(ctx context.Context, userID string, identity entities.PostIdentity) (bool, error) {
	result := r.db.WithContext(ctx).
		Scopes(identityScope(userID, identity)).
		Delete(&entities.Favourite{})
	if result.Error != nil {
		return false, fmt.Errorf("%w: remove favourite: %v", ErrStorage, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// List returns the user's favourites in the order they were added.
func (r *Repository) List(ctx context.Context, userID string) ([]entities.FavouriteEntry, error) {
	var rows []entities.Favourite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list favourites: %v", ErrStorage, err)
	}

	entries := make([]entities.FavouriteEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entities.FavouriteEntry{
			Identity: row.Identity(),
			AddedAt:  row.CreatedAt,
		})
	}
	return entries, nil
}

// Count returns how many favourites the user has.
func (r *Repository) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Favourite{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: count favourites: %v", ErrStorage, err)
	}
	return count, nil
}
