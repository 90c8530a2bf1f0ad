// Package feed assembles the featured feed responses: gating, candidate
// resolution (cached ranking or direct query), exclusion filtering,
// pagination, and materialization.
package feed

import (
	"context"
	"sort"
	"strings"
	"time"

	apierrors "github.com/driftnote/backend/internal/errors"
	"github.com/driftnote/backend/internal/featured"
	"github.com/driftnote/backend/internal/logger"
	"github.com/driftnote/backend/internal/metrics"
	"github.com/driftnote/backend/internal/models"
	"github.com/driftnote/backend/internal/query"
	"github.com/driftnote/backend/internal/ranking"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RankingLister serves cached ordered identifier lists per ranking key
type RankingLister interface {
	Get(ctx context.Context, key ranking.Key) ([]string, error)
}

// Policy gates the discovery surface and exposes instance pins
type Policy interface {
	IsFeatureAvailable(ctx context.Context, viewerID string) (bool, error)
	PinnedUsernames(ctx context.Context) ([]string, error)
}

// Config tunes feed assembly
type Config struct {
	MaxPageLimit   int           // hard cap on per-request limits
	FeaturedWindow time.Duration // recency window for featured notes
	FetchDepth     int           // candidate depth for direct ranked queries
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		MaxPageLimit:   100,
		FeaturedWindow: 72 * time.Hour,
		FetchDepth:     featured.DefaultDepth,
	}
}

// Service orchestrates featured feed assembly
type Service struct {
	db     *gorm.DB
	cache  RankingLister
	policy Policy
	cfg    Config
}

// NewService creates a feed service
func NewService(db *gorm.DB, cache RankingLister, policy Policy, cfg Config) *Service {
	if cfg.MaxPageLimit <= 0 {
		cfg.MaxPageLimit = DefaultConfig().MaxPageLimit
	}
	if cfg.FeaturedWindow <= 0 {
		cfg.FeaturedWindow = DefaultConfig().FeaturedWindow
	}
	if cfg.FetchDepth <= 0 {
		cfg.FetchDepth = DefaultConfig().FetchDepth
	}
	return &Service{db: db, cache: cache, policy: policy, cfg: cfg}
}

// gate rejects the request when the discovery surface is disabled.
// Runs before any cache or storage access.
func (s *Service) gate(ctx context.Context, viewerID, feature string) error {
	available, err := s.policy.IsFeatureAvailable(ctx, viewerID)
	if err != nil {
		return apierrors.StorageUnavailable("policy lookup").WithCause(err)
	}
	if !available {
		metrics.Get().FeedRejectedTotal.WithLabelValues(feature).Inc()
		return apierrors.FeatureUnavailable(feature)
	}
	return nil
}

// FeaturedNotesParams are the request parameters for the featured-notes feed
type FeaturedNotesParams struct {
	Limit     int
	Offset    int
	ChannelID *string
}

// FeaturedNotes returns the featured notes feed: local public notes with a
// positive engagement score created inside the recency window, ranked by
// score, re-sorted chronologically, then offset-paged.
//
// Exclusions are pushed into the query since candidates come straight from
// storage, not from a viewer-agnostic cache.
func (s *Service) FeaturedNotes(ctx context.Context, viewerID string, params FeaturedNotesParams) ([]models.Note, error) {
	start := time.Now()
	defer func() {
		metrics.Get().FeedGenerationTime.WithLabelValues("notes_featured").Observe(time.Since(start).Seconds())
	}()

	if err := s.gate(ctx, viewerID, "featured notes"); err != nil {
		return nil, err
	}

	limit := clampLimit(params.Limit, 10, s.cfg.MaxPageLimit)
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	ec, err := query.ResolveExclusionContext(ctx, s.db, viewerID)
	if err != nil {
		return nil, apierrors.StorageUnavailable("viewer context").WithCause(err)
	}

	cutoff := time.Now().Add(-s.cfg.FeaturedWindow)

	var notes []models.Note
	err = s.db.WithContext(ctx).
		Preload("User").
		Scopes(
			query.PublicNotesOnly(),
			query.LocalOnly(),
			query.MinScore("score", 0),
			query.CreatedAfter(cutoff),
			query.InChannel(params.ChannelID),
			query.ExcludeAuthors(ec),
		).
		Order("score DESC").
		Order("id DESC").
		Limit(s.cfg.FetchDepth).
		Find(&notes).Error
	if err != nil {
		return nil, apierrors.StorageUnavailable("featured notes query").WithCause(err)
	}

	// Second stage: the top-K by score is re-sorted chronologically, then
	// the page is cut from that chronological list. The combined order is
	// not expressible as one database sort, so the two-stage shape stays.
	sort.SliceStable(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		}
		return notes[i].ID > notes[j].ID
	})

	return featured.Window(notes, offset, limit), nil
}

// FeaturedGallery returns the featured gallery feed from the cached
// ranking: reorder the snapshot by identifier (newest first), apply the
// cursor, materialize, then drop entries hidden from this viewer.
//
// The snapshot is built without viewer context, so exclusions are applied
// post-hoc to the materialized page; a page touched by exclusions may
// carry fewer than limit items.
func (s *Service) FeaturedGallery(ctx context.Context, viewerID string, cursor featured.PageCursor) ([]models.GalleryPost, error) {
	start := time.Now()
	defer func() {
		metrics.Get().FeedGenerationTime.WithLabelValues("gallery_featured").Observe(time.Since(start).Seconds())
	}()

	if err := s.gate(ctx, viewerID, "featured gallery"); err != nil {
		return nil, err
	}

	ids, err := s.cache.Get(ctx, ranking.KeyGallery)
	if err != nil {
		return nil, err
	}

	pageIDs := featured.Paginate(featured.ReorderByID(ids), cursor)
	if len(pageIDs) == 0 {
		return []models.GalleryPost{}, nil
	}

	ec, err := query.ResolveExclusionContext(ctx, s.db, viewerID)
	if err != nil {
		return nil, apierrors.StorageUnavailable("viewer context").WithCause(err)
	}

	var posts []models.GalleryPost
	err = s.db.WithContext(ctx).
		Preload("User").
		Where("id IN ?", pageIDs).
		Find(&posts).Error
	if err != nil {
		return nil, apierrors.StorageUnavailable("gallery materialization").WithCause(err)
	}

	// findById order is not guaranteed; restore the paginated ID order and
	// drop rows the ranking knows about but storage no longer has.
	byID := make(map[string]models.GalleryPost, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]models.GalleryPost, 0, len(pageIDs))
	for _, id := range pageIDs {
		p, ok := byID[id]
		if !ok {
			continue
		}
		if ec.Excludes(p.UserID) {
			continue
		}
		ordered = append(ordered, p)
	}

	return ordered, nil
}

// PopularGallery returns gallery posts with at least one like, most liked
// first. A cheap threshold-and-sort, so it queries storage directly with
// exclusions pushed into the query.
func (s *Service) PopularGallery(ctx context.Context, viewerID string, cursor featured.PageCursor) ([]models.GalleryPost, error) {
	start := time.Now()
	defer func() {
		metrics.Get().FeedGenerationTime.WithLabelValues("gallery_popular").Observe(time.Since(start).Seconds())
	}()

	if err := s.gate(ctx, viewerID, "popular gallery"); err != nil {
		return nil, err
	}

	ec, err := query.ResolveExclusionContext(ctx, s.db, viewerID)
	if err != nil {
		return nil, apierrors.StorageUnavailable("viewer context").WithCause(err)
	}

	var posts []models.GalleryPost
	err = s.db.WithContext(ctx).
		Preload("User").
		Scopes(
			query.MinScore("liked_count", 0),
			query.CursorBounds(cursor.SinceID, cursor.UntilID),
			query.ExcludeAuthors(ec),
		).
		Order("liked_count DESC").
		Order("id DESC").
		Limit(cursor.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, apierrors.StorageUnavailable("popular gallery query").WithCause(err)
	}

	return posts, nil
}

// FeaturedChannels returns the most recently active non-archived channels
func (s *Service) FeaturedChannels(ctx context.Context, viewerID string, limit int) ([]models.Channel, error) {
	if err := s.gate(ctx, viewerID, "featured channels"); err != nil {
		return nil, err
	}

	limit = clampLimit(limit, 10, s.cfg.MaxPageLimit)

	var channels []models.Channel
	err := s.db.WithContext(ctx).
		Scopes(query.NotArchived()).
		Where("last_noted_at IS NOT NULL").
		Order("last_noted_at DESC").
		Limit(limit).
		Find(&channels).Error
	if err != nil {
		return nil, apierrors.StorageUnavailable("featured channels query").WithCause(err)
	}

	return channels, nil
}

// ChannelSearchParams are the request parameters for channel search.
// Query == nil means no text filter; an empty string still filters.
type ChannelSearchParams struct {
	Query     *string
	MatchType query.TextMatchType
	Cursor    featured.PageCursor
}

// SearchChannels returns non-archived channels matching the optional text
// filter, newest first, cursor-paged in the database
func (s *Service) SearchChannels(ctx context.Context, viewerID string, params ChannelSearchParams) ([]models.Channel, error) {
	if err := s.gate(ctx, viewerID, "channel search"); err != nil {
		return nil, err
	}

	matchType := params.MatchType
	if matchType == "" {
		matchType = query.MatchNameAndDescription
	}

	var channels []models.Channel
	err := s.db.WithContext(ctx).
		Scopes(
			query.NotArchived(),
			query.TextFilter(params.Query, matchType),
			query.CursorBounds(params.Cursor.SinceID, params.Cursor.UntilID),
		).
		Order("id DESC").
		Limit(params.Cursor.Limit).
		Find(&channels).Error
	if err != nil {
		return nil, apierrors.StorageUnavailable("channel search query").WithCause(err)
	}

	return channels, nil
}

// PinnedUsers resolves the instance's pinned accounts in their configured
// order. Unknown usernames are skipped, not errors.
func (s *Service) PinnedUsers(ctx context.Context, viewerID string) ([]models.User, error) {
	if err := s.gate(ctx, viewerID, "pinned users"); err != nil {
		return nil, err
	}

	usernames, err := s.policy.PinnedUsernames(ctx)
	if err != nil {
		return nil, apierrors.StorageUnavailable("instance settings").WithCause(err)
	}
	if len(usernames) == 0 {
		return []models.User{}, nil
	}

	users := make([]models.User, 0, len(usernames))
	for _, username := range usernames {
		var user models.User
		err := s.db.WithContext(ctx).
			Where("username_lower = ? AND host IS NULL", strings.ToLower(username)).
			First(&user).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				logger.Log.Debug("pinned user not found", zap.String("username", username))
				continue
			}
			return nil, apierrors.StorageUnavailable("pinned user lookup").WithCause(err)
		}
		users = append(users, user)
	}

	return users, nil
}

// clampLimit applies the default and the configured hard cap
func clampLimit(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
