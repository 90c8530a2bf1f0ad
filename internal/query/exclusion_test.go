package query

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

	require.NoError(t, db.AutoMigrate(&models.Blocking{}, &models.Muting{}))
	return db
}

func TestExcludedActorIDsUnion(t *testing.T) {
	ec := &ExclusionContext{
		ViewerID:        "v",
		BlockedActorIDs: []string{"a", "b"},
		MutedActorIDs:   []string{"b", "c"},
	}

	assert.ElementsMatch(t, []string{"a", "b", "c"}, ec.ExcludedActorIDs())
}

func TestExcludesRequiresViewer(t *testing.T) {
	anonymous := &ExclusionContext{BlockedActorIDs: []string{"a"}}
	assert.False(t, anonymous.Excludes("a"), "absent viewer skips block/mute exclusion entirely")

	withViewer := &ExclusionContext{ViewerID: "v", BlockedActorIDs: []string{"a"}, MutedActorIDs: []string{"m"}}
	assert.True(t, withViewer.Excludes("a"))
	assert.True(t, withViewer.Excludes("m"))
	assert.False(t, withViewer.Excludes("x"))
}

func TestResolveExclusionContext(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&models.Blocking{ID: "b1", BlockerID: "viewer", BlockeeID: "enemy"}).Error)
	require.NoError(t, db.Create(&models.Blocking{ID: "b2", BlockerID: "hater", BlockeeID: "viewer"}).Error)
	require.NoError(t, db.Create(&models.Muting{ID: "m1", MuterID: "viewer", MuteeID: "noisy"}).Error)
	require.NoError(t, db.Create(&models.Muting{ID: "m2", MuterID: "other", MuteeID: "viewer"}).Error)

	ec, err := ResolveExclusionContext(context.Background(), db, "viewer")
	require.NoError(t, err)

	assert.True(t, ec.HasViewer())
	assert.ElementsMatch(t, []string{"enemy", "hater"}, ec.BlockedActorIDs,
		"blocks in either direction hide the other party")
	assert.Equal(t, []string{"noisy"}, ec.MutedActorIDs,
		"mutes only apply in the muter's direction")
}

func TestResolveExclusionContextAnonymous(t *testing.T) {
	db := setupTestDB(t)

	ec, err := ResolveExclusionContext(context.Background(), db, "")
	require.NoError(t, err)
	assert.False(t, ec.HasViewer())
	assert.Empty(t, ec.ExcludedActorIDs())
}
