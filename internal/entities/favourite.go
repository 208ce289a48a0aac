package entities

import "time"

// Favourite marks a post for a user. Rows are created and deleted, never updated.
type Favourite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_favourite_identity;size:64;not null" json:"user_id"`
	PostID    int64     `gorm:"uniqueIndex:idx_favourite_identity;not null" json:"post_id"`
	Site      Site      `gorm:"uniqueIndex:idx_favourite_identity;size:50;not null" json:"site"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Favourite) TableName() string {
	return "favourites"
}

func (f Favourite) Identity() PostIdentity {
	return PostIdentity{Site: f.Site, PostID: f.PostID}
}

// FavouriteEntry is a favourite as listed for a user.
type FavouriteEntry struct {
	Identity PostIdentity `json:"identity"`
	AddedAt  time.Time    `json:"added_at"`
}

type FavouriteEventType string

const (
	FavouriteAdded   FavouriteEventType = "added"
	FavouriteRemoved FavouriteEventType = "removed"
)

// FavouriteEventRecord is the persisted history of favourite changes.
type FavouriteEventRecord struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	UserID    string             `gorm:"index;size:64" json:"user_id"`
	EventType FavouriteEventType `gorm:"index;size:20" json:"event_type"`
	PostID    int64              `json:"post_id"`
	Site      Site               `gorm:"size:50" json:"site"`
	CreatedAt time.Time          `gorm:"index" json:"created_at"`
}

func (FavouriteEventRecord) TableName() string {
	return "favourite_events"
}
