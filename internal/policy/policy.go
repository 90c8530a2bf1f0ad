// Package policy resolves server-level feature gating from the instance
// settings row. "Simple mode" turns the discovery surface off entirely.
package policy

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/driftnote/backend/internal/models"
	"gorm.io/gorm"
)

// metaTTL bounds how long a fetched settings row is reused. The row
// changes rarely; a short TTL keeps admin toggles near-immediate without
// a query per request.
const metaTTL = 10 * time.Second

// Service reads instance settings and answers gating questions
type Service struct {
	db *gorm.DB

	mu        sync.RWMutex
	cached    *models.Meta
	fetchedAt time.Time
}

// NewService creates a policy service over the given database
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Meta returns the instance settings row, serving a briefly cached copy.
// A missing row yields defaults (discovery enabled, nothing pinned).
func (s *Service) Meta(ctx context.Context) (*models.Meta, error) {
	s.mu.RLock()
	if s.cached != nil && time.Since(s.fetchedAt) < metaTTL {
		cached := s.cached
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	var meta models.Meta
	err := s.db.WithContext(ctx).First(&meta, "id = ?", models.MetaRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		meta = models.Meta{ID: models.MetaRowID}
	} else if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = &meta
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	return &meta, nil
}

// IsFeatureAvailable reports whether the discovery surface is enabled.
// The viewer identity is accepted for future per-role policies; today the
// gate is server-wide.
func (s *Service) IsFeatureAvailable(ctx context.Context, viewerID string) (bool, error) {
	meta, err := s.Meta(ctx)
	if err != nil {
		return false, err
	}
	return !meta.SimpleMode, nil
}

// PinnedUsernames returns the instance's pinned account usernames in
// their configured order
func (s *Service) PinnedUsernames(ctx context.Context) ([]string, error) {
	meta, err := s.Meta(ctx)
	if err != nil {
		return nil, err
	}
	return meta.PinnedUsers, nil
}
