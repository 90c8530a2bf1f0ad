// Package kernel provides dependency management for the driftnote backend.
// It consolidates all services and provides type-safe access to them.
package kernel

import (
	"context"
	"sync"

	"github.com/driftnote/backend/internal/auth"
	"github.com/driftnote/backend/internal/featured"
	"github.com/driftnote/backend/internal/feed"
	"github.com/driftnote/backend/internal/logger"
	"github.com/driftnote/backend/internal/policy"
	"github.com/driftnote/backend/internal/ranking"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Kernel holds all application dependencies and provides type-safe access
type Kernel struct {
	db     *gorm.DB
	logger *zap.Logger
	redis  *redis.Client

	rankingSource *ranking.RedisSource
	rankingCache  *featured.RankingCache
	policy        *policy.Service
	feed          *feed.Service
	auth          *auth.Service

	cleanupFuncs []func(context.Context) error
	mu           sync.RWMutex
}

// New creates a new empty kernel. Services are registered with Set* methods.
func New() *Kernel {
	return &Kernel{
		cleanupFuncs: make([]func(context.Context) error, 0),
	}
}

// SetDB registers the database connection
func (k *Kernel) SetDB(db *gorm.DB) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.db = db
	return k
}

// DB returns the database connection
func (k *Kernel) DB() *gorm.DB {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.db
}

// SetLogger registers the logger
func (k *Kernel) SetLogger(l *zap.Logger) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.logger = l
	return k
}

// Logger returns the logger instance
func (k *Kernel) Logger() *zap.Logger {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.logger == nil {
		return logger.Log
	}
	return k.logger
}

// SetRedis registers the Redis client
func (k *Kernel) SetRedis(client *redis.Client) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.redis = client
	return k
}

// Redis returns the Redis client
func (k *Kernel) Redis() *redis.Client {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.redis
}

// SetRankingSource registers the ranking source
func (k *Kernel) SetRankingSource(s *ranking.RedisSource) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.rankingSource = s
	return k
}

// RankingSource returns the ranking source
func (k *Kernel) RankingSource() *ranking.RedisSource {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.rankingSource
}

// SetRankingCache registers the TTL ranking cache
func (k *Kernel) SetRankingCache(c *featured.RankingCache) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.rankingCache = c
	return k
}

// RankingCache returns the TTL ranking cache
func (k *Kernel) RankingCache() *featured.RankingCache {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.rankingCache
}

// SetPolicy registers the gating policy service
func (k *Kernel) SetPolicy(p *policy.Service) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.policy = p
	return k
}

// Policy returns the gating policy service
func (k *Kernel) Policy() *policy.Service {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.policy
}

// SetFeed registers the feed service
func (k *Kernel) SetFeed(f *feed.Service) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.feed = f
	return k
}

// Feed returns the feed service
func (k *Kernel) Feed() *feed.Service {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.feed
}

// SetAuth registers the auth service
func (k *Kernel) SetAuth(a *auth.Service) *Kernel {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.auth = a
	return k
}

// Auth returns the auth service
func (k *Kernel) Auth() *auth.Service {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.auth
}

// OnCleanup registers a function to run during shutdown
func (k *Kernel) OnCleanup(fn func(context.Context) error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.cleanupFuncs = append(k.cleanupFuncs, fn)
}

// Shutdown runs all registered cleanup functions in reverse order
func (k *Kernel) Shutdown(ctx context.Context) {
	k.mu.RLock()
	funcs := make([]func(context.Context) error, len(k.cleanupFuncs))
	copy(funcs, k.cleanupFuncs)
	k.mu.RUnlock()

	for i := len(funcs) - 1; i >= 0; i-- {
		if err := funcs[i](ctx); err != nil {
			k.Logger().Warn("cleanup failed", zap.Error(err))
		}
	}
}
