package health

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/quillpost/newsletter/internal/core/ports"
	infraDB "github.com/quillpost/newsletter/internal/infrastructure/db"
)

// checker pairs the name a probe reports in logs with the probe itself.
type checker struct {
	name  string
	probe func(ctx context.Context) error
}

func (c *checker) Name() string                    { return c.name }
func (c *checker) Check(ctx context.Context) error { return c.probe(ctx) }

// NewDBHealthChecker probes Postgres connectivity.
func NewDBHealthChecker(database *infraDB.Database) ports.HealthChecker {
	return &checker{
		name:  "postgres",
		probe: func(ctx context.Context) error { return database.DB.PingContext(ctx) },
	}
}

// NewRedisHealthChecker probes the Redis connection.
func NewRedisHealthChecker(client *redis.Client) ports.HealthChecker {
	return &checker{
		name:  "redis",
		probe: func(ctx context.Context) error { return client.Ping(ctx).Err() },
	}
}
