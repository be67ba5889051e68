package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	clientName         = "liftbook"
	defaultPoolSize    = 10
	defaultPingTimeout = 5 * time.Second
)

// RedisOptions describes the connection shared by the lift cache, the
// summary cache, the token denylist and the rate limiter.
type RedisOptions struct {
	Host     string
	Port     string
	Password string
	DB       int

	// Zero values fall back to the defaults above.
	PoolSize    int
	PingTimeout time.Duration
}

func (o RedisOptions) Addr() string {
	return net.JoinHostPort(o.Host, o.Port)
}

func (o RedisOptions) withDefaults() RedisOptions {
	if o.PoolSize <= 0 {
		o.PoolSize = defaultPoolSize
	}
	if o.PingTimeout <= 0 {
		o.PingTimeout = defaultPingTimeout
	}
	return o
}

// NewRedisClient connects and pings once, giving up after PingTimeout.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	opts = opts.withDefaults()

	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr(),
		ClientName:   clientName,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.PingTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.PoolSize / 2,
	})

	ctx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr(), err)
	}

	return rdb, nil
}
