package history

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/postbrowser/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record saves a favourite event to the database.
func (r *Repository) Record(ctx context.Context, event *entities.FavouriteEventRecord) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// GetEvents retrieves paginated favourite events for a user, most recent first.
func (r *Repository) GetEvents(ctx context.Context, userID string, limit, offset int) ([]entities.FavouriteEventRecord, int64, error) {
	var events []entities.FavouriteEventRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.FavouriteEventRecord{})
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// DeleteOlderThan removes events older than the retention window.
// Returns the number of deleted events.
func (r *Repository) DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&entities.FavouriteEventRecord{})
	return result.RowsAffected, result.Error
}
