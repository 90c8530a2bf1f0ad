package policy

import (
	"context"
	"fmt"
	"testing"

	"github.com/driftnote/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Meta{}))
	return db
}

func TestMetaDefaultsWhenMissing(t *testing.T) {
	svc := NewService(setupTestDB(t))

	available, err := svc.IsFeatureAvailable(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, available, "missing settings row means discovery is enabled")

	pinned, err := svc.PinnedUsernames(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pinned)
}

func TestSimpleModeDisablesDiscovery(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Meta{ID: models.MetaRowID, SimpleMode: true}).Error)

	svc := NewService(db)

	available, err := svc.IsFeatureAvailable(context.Background(), "someone")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestMetaIsCachedBriefly(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Meta{ID: models.MetaRowID, SimpleMode: false}).Error)

	svc := NewService(db)

	available, err := svc.IsFeatureAvailable(context.Background(), "")
	require.NoError(t, err)
	require.True(t, available)

	// A flip inside the TTL window is not observed yet
	require.NoError(t, db.Model(&models.Meta{}).Where("id = ?", models.MetaRowID).
		Update("simple_mode", true).Error)

	available, err = svc.IsFeatureAvailable(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, available, "settings are served from the short-lived cache")
}
