package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/openagora/agora/internal/pkg/log"
)

// GenericCacheService provides a key-prefixed, JSON-marshalling facade over a
// Cache backend. The session allowlist rides on the set operations.
type GenericCacheService struct {
	cache  Cache
	config *Config
}

// NewGenericCacheService creates a new generic cache service
func NewGenericCacheService(cache Cache, config *Config) *GenericCacheService {
	if config == nil {
		config = DefaultConfig()
	}
	return &GenericCacheService{
		cache:  cache,
		config: config,
	}
}

// IsEnabled reports whether the service is usable
func (gcs *GenericCacheService) IsEnabled() bool {
	return gcs != nil && gcs.config.Enabled && gcs.cache != nil
}

// buildKey prepends the configured prefix
func (gcs *GenericCacheService) buildKey(key string) string {
	return gcs.config.Prefix + key
}

// GenerateHashKey builds a deterministic cache key from an operation name and
// a parameter map. Parameters are sorted so that identical maps always yield
// the same key.
func (gcs *GenericCacheService) GenerateHashKey(operation string, params map[string]interface{}) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%v;", k, params[k])
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return fmt.Sprintf("%s:%s", operation, hex.EncodeToString(sum[:16]))
}

// GetCached retrieves and unmarshals cached data into the target interface
func (gcs *GenericCacheService) GetCached(ctx context.Context, key string, target interface{}) error {
	if !gcs.IsEnabled() {
		return ErrCacheDisabled
	}

	fullKey := gcs.buildKey(key)
	data, err := gcs.cache.Get(ctx, fullKey)
	if err != nil {
		if err != ErrKeyNotFound {
			log.Error("Cache get error for key %s: %v", fullKey, err)
		}
		return err
	}

	if err := json.Unmarshal(data, target); err != nil {
		log.Error("Cache data unmarshal error for key %s: %v", fullKey, err)
		return fmt.Errorf("%w: %v", ErrDeserializationFailed, err)
	}
	return nil
}

// CacheData marshals and stores data under key with the given TTL
func (gcs *GenericCacheService) CacheData(ctx context.Context, key string, data interface{}, ttl time.Duration) error {
	if !gcs.IsEnabled() {
		return ErrCacheDisabled
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if ttl <= 0 {
		ttl = gcs.config.TTL
	}
	return gcs.cache.Set(ctx, gcs.buildKey(key), payload, ttl)
}

// Invalidate removes a single cache entry
func (gcs *GenericCacheService) Invalidate(ctx context.Context, key string) error {
	if !gcs.IsEnabled() {
		return ErrCacheDisabled
	}
	return gcs.cache.Delete(ctx, gcs.buildKey(key))
}

// SetAdd adds a member to the set stored at key
func (gcs *GenericCacheService) SetAdd(ctx context.Context, key string, member string) error {
	if !gcs.IsEnabled() {
		return ErrCacheDisabled
	}
	return gcs.cache.SetAdd(ctx, gcs.buildKey(key), member)
}

// SetRemove removes a member from the set stored at key
func (gcs *GenericCacheService) SetRemove(ctx context.Context, key string, member string) error {
	if !gcs.IsEnabled() {
		return ErrCacheDisabled
	}
	return gcs.cache.SetRemove(ctx, gcs.buildKey(key), member)
}

// SetIsMember reports whether member is part of the set stored at key
func (gcs *GenericCacheService) SetIsMember(ctx context.Context, key string, member string) (bool, error) {
	if !gcs.IsEnabled() {
		return false, ErrCacheDisabled
	}
	return gcs.cache.SetIsMember(ctx, gcs.buildKey(key), member)
}
