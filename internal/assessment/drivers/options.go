package drivers

import (
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
)

// Option is a functional option for configuring a repository.
type Option func(*config)

// config holds configuration for repository drivers.
type config struct {
	redisClient *redis.Client
	redisTTL    time.Duration
	db          *sql.DB
}

// WithRedisClient sets the Redis client for the Redis driver.
func WithRedisClient(client *redis.Client) Option {
	return func(c *config) {
		c.redisClient = client
	}
}

// WithRedisTTL sets the TTL for Redis session keys.
func WithRedisTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.redisTTL = ttl
	}
}

// WithDB sets the database handle for the postgres driver.
func WithDB(db *sql.DB) Option {
	return func(c *config) {
		c.db = db
	}
}
