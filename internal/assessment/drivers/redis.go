package drivers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/atharhive/CareLens-sub001/internal/assessment"
)

const (
	// Redis key prefix for assessment sessions
	sessionKeyPrefix = "assessment:"
	// Default TTL for session keys (30 days; an intake can span visits)
	defaultTTL = 30 * 24 * time.Hour
)

// RedisRepository implements assessment.Repository using Redis with JSON
// values under a key prefix.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository creates a new Redis-backed repository.
func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisRepository{
		client: client,
		ttl:    ttl,
	}
}

// Load implements assessment.Repository.
// Returns nil if the session is not found (not an error).
// Refreshes TTL on every read.
func (r *RedisRepository) Load(ctx context.Context, key string) (*assessment.AssessmentSession, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s assessment.AssessmentSession
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, err
	}

	// Refresh TTL on read
	_ = r.client.Expire(ctx, r.key(key), r.ttl).Err()

	return &s, nil
}

// Save implements assessment.Repository.
// Refreshes TTL on every write.
func (r *RedisRepository) Save(ctx context.Context, key string, s *assessment.AssessmentSession) error {
	val, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(key), val, r.ttl).Err()
}

// Delete implements assessment.Repository.
func (r *RedisRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Close implements assessment.Repository.
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

// key constructs the Redis key for a session key.
func (r *RedisRepository) key(id string) string {
	return sessionKeyPrefix + id
}
