package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/driftnote/backend/internal/feed"
	"github.com/driftnote/backend/internal/logger"
	"github.com/driftnote/backend/internal/models"
	"github.com/driftnote/backend/internal/ranking"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	_ = logger.Initialize("error", "/tmp/driftnote-handlers-test.log")
}

type stubPolicy struct {
	available bool
}

func (s *stubPolicy) IsFeatureAvailable(ctx context.Context, viewerID string) (bool, error) {
	return s.available, nil
}

func (s *stubPolicy) PinnedUsernames(ctx context.Context) ([]string, error) {
	return nil, nil
}

type stubLister struct {
	ids []string
}

func (s *stubLister) Get(ctx context.Context, key ranking.Key) ([]string, error) {
	return s.ids, nil
}

func setupRouter(t *testing.T, available bool, rankedIDs []string) (*gin.Engine, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Note{}, &models.Channel{},
		&models.GalleryPost{}, &models.Blocking{}, &models.Muting{}, &models.Meta{},
	))

	feedService := feed.NewService(db, &stubLister{ids: rankedIDs}, &stubPolicy{available: available}, feed.DefaultConfig())
	h := NewHandlers(feedService, 100)

	r := gin.New()
	r.GET("/api/notes/featured", h.FeaturedNotes)
	r.GET("/api/gallery/featured", h.FeaturedGallery)
	r.GET("/api/gallery/popular", h.PopularGallery)
	r.GET("/api/channels/featured", h.FeaturedChannels)
	r.GET("/api/channels/search", h.SearchChannels)
	r.GET("/api/users/pinned", h.PinnedUsers)

	return r, db
}

func doRequest(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestFeaturedGalleryEndpoint(t *testing.T) {
	ids := []string{"id003", "id002", "id001"}
	r, db := setupRouter(t, true, ids)

	user := models.User{ID: "u1", Username: "alice", UsernameLower: "alice"}
	require.NoError(t, db.Create(&user).Error)
	for _, id := range ids {
		require.NoError(t, db.Create(&models.GalleryPost{ID: id, UserID: user.ID}).Error)
	}

	w := doRequest(r, "/api/gallery/featured?limit=2")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Posts []models.GalleryPost `json:"posts"`
		Meta  struct {
			Limit int `json:"limit"`
			Count int `json:"count"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Meta.Limit)
	assert.Equal(t, 2, body.Meta.Count)
	require.Len(t, body.Posts, 2)
	assert.Equal(t, "id003", body.Posts[0].ID)
}

func TestFeaturedGalleryGatingDenied(t *testing.T) {
	r, _ := setupRouter(t, false, nil)

	w := doRequest(r, "/api/gallery/featured")
	require.Equal(t, http.StatusForbidden, w.Code)

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "FEATURE_UNAVAILABLE", body.Code)
}

func TestInvalidCursorRejected(t *testing.T) {
	r, _ := setupRouter(t, true, nil)

	w := doRequest(r, "/api/gallery/featured?sinceId=id900&untilId=id100")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_CURSOR", body.Code)
}

func TestFeaturedNotesEndpointEmpty(t *testing.T) {
	r, _ := setupRouter(t, true, nil)

	w := doRequest(r, "/api/notes/featured")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Notes []models.Note `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Notes, "empty feed is a valid, non-error response")
}

func TestSearchChannelsBadType(t *testing.T) {
	r, _ := setupRouter(t, true, nil)

	w := doRequest(r, "/api/channels/search?query=x&type=bogus")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeaturedChannelsEndpoint(t *testing.T) {
	r, db := setupRouter(t, true, nil)

	now := time.Now()
	require.NoError(t, db.Create(&models.Channel{ID: "c1", OwnerID: "u1", Name: "beats", LastNotedAt: &now}).Error)

	w := doRequest(r, "/api/channels/featured")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Channels []models.Channel `json:"channels"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Channels, 1)
	assert.Equal(t, "c1", body.Channels[0].ID)
}
