package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/postbrowser/internal/database"
	"github.com/mrlokans/postbrowser/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "history.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return NewRepository(db)
}

func TestRepository_RecordAndGetEvents(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, &entities.FavouriteEventRecord{
		UserID: "U", EventType: entities.FavouriteAdded, Site: entities.SiteRule34, PostID: 1,
		CreatedAt: time.Now().Add(-time.Minute),
	}))
	require.NoError(t, repo.Record(ctx, &entities.FavouriteEventRecord{
		UserID: "U", EventType: entities.FavouriteRemoved, Site: entities.SiteRule34, PostID: 1,
	}))
	require.NoError(t, repo.Record(ctx, &entities.FavouriteEventRecord{
		UserID: "V", EventType: entities.FavouriteAdded, Site: entities.SiteSafebooru, PostID: 2,
	}))

	events, total, err := repo.GetEvents(ctx, "U", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, events, 2)
	assert.Equal(t, entities.FavouriteRemoved, events[0].EventType)

	_, total, err = repo.GetEvents(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestRepository_DeleteOlderThan(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, &entities.FavouriteEventRecord{
		UserID: "U", EventType: entities.FavouriteAdded, PostID: 1,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}))
	require.NoError(t, repo.Record(ctx, &entities.FavouriteEventRecord{
		UserID: "U", EventType: entities.FavouriteAdded, PostID: 2,
	}))

	deleted, err := repo.DeleteOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, _, err := repo.GetEvents(ctx, "U", 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(2), events[0].PostID)
}
