package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/driftnote/backend/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient creates a Redis client with connection pooling and
// verifies connectivity before returning.
func NewRedisClient(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 5,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	logger.Log.Info("Redis client connected",
		zap.String("address", addr),
	)

	return client, nil
}

// RedisSource reads rankings from the sorted sets maintained by the
// scoring pipeline. One ZSET per ranking key, member = entity ID,
// score = engagement score.
type RedisSource struct {
	client *redis.Client
}

// NewRedisSource creates a Source backed by Redis sorted sets
func NewRedisSource(client *redis.Client) *RedisSource {
	return &RedisSource{client: client}
}

// zsetKey returns the sorted-set key for a ranking key
func zsetKey(key Key) string {
	return "featured:" + string(key)
}

// ComputeRanking reads the top `depth` members of the key's sorted set.
// Ties on score are broken by identifier descending so the returned order
// is total and stable across calls.
func (s *RedisSource) ComputeRanking(ctx context.Context, key Key, depth int) ([]ScoredCandidate, error) {
	members, err := s.client.ZRevRangeWithScores(ctx, zsetKey(key), 0, int64(depth-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("zrevrange %s: %w", zsetKey(key), err)
	}

	candidates := make([]ScoredCandidate, 0, len(members))
	for _, m := range members {
		id, ok := m.Member.(string)
		if !ok || id == "" {
			continue
		}
		candidates = append(candidates, ScoredCandidate{ID: id, Score: m.Score})
	}

	// Redis breaks score ties lexicographically ascending; we want the
	// newer (greater) identifier first.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].ID > candidates[j].ID
	})

	return candidates, nil
}

// UpdateScore adds or updates a member's score in a ranking sorted set.
// Used by the CLI and by engagement hooks; the feed path never writes.
func (s *RedisSource) UpdateScore(ctx context.Context, key Key, id string, score float64) error {
	return s.client.ZAdd(ctx, zsetKey(key), redis.Z{Score: score, Member: id}).Err()
}

// RemoveCandidate deletes a member from a ranking sorted set, e.g. when
// the underlying entity is deleted.
func (s *RedisSource) RemoveCandidate(ctx context.Context, key Key, id string) error {
	return s.client.ZRem(ctx, zsetKey(key), id).Err()
}
