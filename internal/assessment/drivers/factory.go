package drivers

import (
	"github.com/atharhive/CareLens-sub001/internal/assessment"
)

// Driver represents the repository backend type.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverRedis    Driver = "redis"
	DriverPostgres Driver = "postgres"
)

// NewRepository creates an assessment.Repository for the given driver.
// Redis requires WithRedisClient; postgres requires WithDB.
func NewRepository(driver Driver, opts ...Option) (assessment.Repository, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	switch driver {
	case DriverMemory:
		return NewInMemoryRepository(), nil

	case DriverRedis:
		if cfg.redisClient == nil {
			return nil, assessment.ErrInvalidConfig
		}
		return NewRedisRepository(cfg.redisClient, cfg.redisTTL), nil

	case DriverPostgres:
		if cfg.db == nil {
			return nil, assessment.ErrInvalidConfig
		}
		return assessment.NewPostgresRepository(cfg.db), nil

	default:
		return nil, assessment.ErrInvalidDriver
	}
}
