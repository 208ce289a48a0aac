package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/postbrowser/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) *Database {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDatabase(dbPath, WithLogLevel(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fresh.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should be created")
	assert.NoError(t, db.Ping())
}

func TestMigrate_CreatesTables(t *testing.T) {
	db := setupTestDB(t)

	assert.True(t, db.DB.Migrator().HasTable(&entities.Favourite{}))
	assert.True(t, db.DB.Migrator().HasTable(&entities.FavouriteEventRecord{}))
	assert.True(t, db.DB.Migrator().HasIndex(&entities.Favourite{}, "idx_favourite_identity"))

	// Running migrations again is a no-op.
	assert.NoError(t, Migrate(db.DB))
}

func TestFavourite_UniqueIdentity(t *testing.T) {
	db := setupTestDB(t)

	fav := entities.Favourite{UserID: "U", Site: entities.SiteRule34, PostID: 1, CreatedAt: time.Now()}
	require.NoError(t, db.DB.Create(&fav).Error)

	dup := entities.Favourite{UserID: "U", Site: entities.SiteRule34, PostID: 1, CreatedAt: time.Now()}
	assert.Error(t, db.DB.Create(&dup).Error)

	other := entities.Favourite{UserID: "U", Site: entities.SiteGelbooru, PostID: 1, CreatedAt: time.Now()}
	assert.NoError(t, db.DB.Create(&other).Error)
}

func TestPing_AfterClose(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping())
}
