package config

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds the client backing the token-bucket rate
// limiter and the roster/reference response cache.  It reads
// REDIS_ADDR (or REDIS_HOST + REDIS_PORT), REDIS_PASSWORD, REDIS_DB
// and REDIS_TLS, then verifies the connection with a short ping.
// Redis is optional: nil is returned when no server is reachable and
// the middleware turns itself off.
func NewRedisClient() *redis.Client {
	addr := envStr("REDIS_ADDR", "")
	if host := envStr("REDIS_HOST", ""); host != "" {
		addr = host + ":" + envStr("REDIS_PORT", "6379")
	}
	if addr == "" {
		addr = "localhost:6379"
	}
	opts := &redis.Options{
		Addr:     addr,
		Password: envStr("REDIS_PASSWORD", ""),
		DB:       envInt("REDIS_DB", 0),
	}
	if envBool("REDIS_TLS", false) {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
