package bus

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Factory creates the bus of one job once its ID and pool size are known.
type Factory func(ctx context.Context, job string, workers int) (Bus, error)

// LocalFactory returns a Factory for in-process buses.
func LocalFactory() Factory {
	return func(_ context.Context, _ string, workers int) (Bus, error) {
		return NewLocal(workers), nil
	}
}

// RedisFactory returns a Factory for buses on client. The server is pinged
// when the bus is created, not when the factory is.
func RedisFactory(client *redis.Client, opts ...RedisOption) Factory {
	return func(ctx context.Context, job string, workers int) (Bus, error) {
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", client.Options().Addr, err)
		}
		return NewRedis(ctx, client, job, workers, opts...)
	}
}
