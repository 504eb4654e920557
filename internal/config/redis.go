package config

import (
	"crypto/tls"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisAddrEnv        = "REDIS_ADDR"
	redisPasswordEnv    = "REDIS_PASSWORD"
	redisDBEnv          = "REDIS_DB"
	redisTLSEnv         = "REDIS_TLS"
	redisPoolSizeEnv    = "REDIS_POOL_SIZE"
	redisDialTimeoutEnv = "REDIS_DIAL_TIMEOUT_SECONDS"

	defaultRedisAddr        = "localhost:6379"
	defaultRedisDB          = 0
	defaultRedisPoolSize    = 10
	defaultRedisDialTimeout = 5 * time.Second
)

// RedisConfig backs the recommendation cache and the generation lock.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	TLS         bool
	PoolSize    int
	DialTimeout time.Duration
}

func LoadRedisConfig() (*RedisConfig, error) {
	addr := os.Getenv(redisAddrEnv)
	if addr == "" {
		addr = defaultRedisAddr
	}

	db := defaultRedisDB
	if raw := os.Getenv(redisDBEnv); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return nil, ErrInvalidRedisDB
		}
		db = parsed
	}

	return &RedisConfig{
		Addr:        addr,
		Password:    os.Getenv(redisPasswordEnv),
		DB:          db,
		TLS:         os.Getenv(redisTLSEnv) == "true",
		PoolSize:    getEnvInt(redisPoolSizeEnv, defaultRedisPoolSize),
		DialTimeout: getEnvSeconds(redisDialTimeoutEnv, defaultRedisDialTimeout),
	}, nil
}

func (c *RedisConfig) Validate() error {
	if c == nil || c.Addr == "" {
		return ErrRedisAddrMissing
	}
	return nil
}

// Options converts the config into go-redis client options.
func (c *RedisConfig) Options() *redis.Options {
	opts := &redis.Options{
		Addr:        c.Addr,
		Password:    c.Password,
		DB:          c.DB,
		PoolSize:    c.PoolSize,
		DialTimeout: c.DialTimeout,
	}
	if c.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}
