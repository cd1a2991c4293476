// Package redis provides a Redis-backed provider catalog source shared by
// several registry processes.
package redis

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Errors
var (
	ErrConnectionFailed = errors.New("redis: connection failed")
	ErrOperationTimeout = errors.New("redis: operation timed out")
	ErrInvalidConfig    = errors.New("redis: invalid catalog configuration")
)

// Config locates the catalog hash and the server holding it.
type Config struct {
	Address  string
	Password string
	DB       int

	// KeyPrefix namespaces the catalog hash, which lives at KeyPrefix+"providers".
	KeyPrefix string

	MaxRetries   int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns the configuration for a local Redis.
// A catalog is read once per command, so the pool stays small.
func DefaultConfig() Config {
	return Config{
		Address:      "localhost:6379",
		KeyPrefix:    "opregistry:",
		MaxRetries:   3,
		PoolSize:     2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Validate reports settings the store cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Address == "":
		return errors.Join(ErrInvalidConfig, errors.New("address is required"))
	case c.DialTimeout <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("dial timeout must be positive"))
	}
	return nil
}

func (c Config) clientOptions() *redis.Options {
	return &redis.Options{
		Addr:         c.Address,
		Password:     c.Password,
		DB:           c.DB,
		MaxRetries:   c.MaxRetries,
		PoolSize:     c.PoolSize,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}
}

// ConfigOption adjusts a Config.
type ConfigOption func(*Config)

// WithAddress sets the host:port of the server.
func WithAddress(addr string) ConfigOption {
	return func(c *Config) { c.Address = addr }
}

// WithPassword sets the AUTH password.
func WithPassword(password string) ConfigOption {
	return func(c *Config) { c.Password = password }
}

// WithDB selects the database index.
func WithDB(db int) ConfigOption {
	return func(c *Config) { c.DB = db }
}

// WithKeyPrefix sets the namespace of the catalog hash.
func WithKeyPrefix(prefix string) ConfigOption {
	return func(c *Config) { c.KeyPrefix = prefix }
}

// WithPoolSize sets the connection pool size.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) { c.PoolSize = size }
}

// WithTimeouts sets the dial, read and write timeouts.
func WithTimeouts(dial, read, write time.Duration) ConfigOption {
	return func(c *Config) {
		c.DialTimeout = dial
		c.ReadTimeout = read
		c.WriteTimeout = write
	}
}
