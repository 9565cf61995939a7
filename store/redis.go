package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConnectRedis returns a client when the server answers a ping, nil
// otherwise. The stores treat a nil client as "mirror disabled" and keep
// working from memory alone.
func ConnectRedis(addr, password string, log *zap.Logger) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		if log != nil {
			log.Warn("redis unavailable, continuing without mirror",
				zap.String("addr", addr), zap.Error(err))
		}
		_ = rdb.Close()
		return nil
	}
	return rdb
}
