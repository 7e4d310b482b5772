package cache

import (
	"context"
	"errors"
	"time"
)

// Cache defines the generic cache interface for all cache implementations
type Cache interface {
	// Get retrieves a value from cache by key
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from cache by key
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)

	// SetAdd adds a member to the set stored at key
	SetAdd(ctx context.Context, key string, member string) error

	// SetRemove removes a member from the set stored at key
	SetRemove(ctx context.Context, key string, member string) error

	// SetIsMember reports whether member is part of the set stored at key
	SetIsMember(ctx context.Context, key string, member string) (bool, error)

	// Close closes the cache connection
	Close() error
}

// Config holds configuration for cache instances
type Config struct {
	// Enabled indicates if caching is enabled
	Enabled bool

	// TTL is the default time-to-live for cache entries
	TTL time.Duration

	// Prefix is added to all cache keys
	Prefix string

	// Backend specifies the cache backend (memory, redis)
	Backend string
}

// Sentinel errors shared by all backends
var (
	ErrKeyNotFound           = errors.New("cache: key not found")
	ErrCacheDisabled         = errors.New("cache: disabled")
	ErrDeserializationFailed = errors.New("cache: deserialization failed")
)

// DefaultConfig returns a conservative default configuration
func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		TTL:     24 * time.Hour,
		Prefix:  "agora:",
		Backend: "memory",
	}
}
