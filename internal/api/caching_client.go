package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/vilaca/profile-card/internal/domain"
)

const (
	cacheKeyPrefix = "profile-card:"
	// defaultFetchTimeout bounds a shared upstream fetch once it is detached from its callers
	defaultFetchTimeout = 30 * time.Second
)

// Cache stores serialized upstream responses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachingClient wraps both profile clients with caching capabilities.
// Only successful lookups are cached; errors and missing records always go upstream.
// Concurrent lookups for the same key share a single upstream request. The
// shared request does not inherit any caller's cancellation; each caller
// stops waiting on its own context.
type CachingClient struct {
	external     ExternalProfileClient
	internal     InternalProfileClient
	cache        Cache
	ttl          time.Duration
	fetchTimeout time.Duration
	group        singleflight.Group
	logger       *zap.Logger
}

// NewCachingClient creates a new caching client wrapper.
func NewCachingClient(external ExternalProfileClient, internal InternalProfileClient, cache Cache, ttl time.Duration, logger *zap.Logger) *CachingClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CachingClient{
		external:     external,
		internal:     internal,
		cache:        cache,
		ttl:          ttl,
		fetchTimeout: defaultFetchTimeout,
		logger:       logger,
	}
}

// WithFetchTimeout sets the deadline of a shared upstream fetch. It should be
// at least the longest per-source timeout of the callers.
func (c *CachingClient) WithFetchTimeout(timeout time.Duration) *CachingClient {
	if timeout > 0 {
		c.fetchTimeout = timeout
	}
	return c
}

// GetUser retrieves the external profile with caching.
func (c *CachingClient) GetUser(ctx context.Context, handle string) (*domain.ExternalProfile, error) {
	if c.external == nil {
		return nil, fmt.Errorf("no external profile client configured")
	}

	// GitHub logins are case-insensitive
	key := fmt.Sprintf("%s%s:user:%s", cacheKeyPrefix, domain.SourceGitHub, strings.ToLower(handle))
	return cachedFetch(ctx, c, key, func(ctx context.Context) (*domain.ExternalProfile, error) {
		return c.external.GetUser(ctx, handle)
	})
}

// GetProfileByUsername retrieves the internal profile with caching.
func (c *CachingClient) GetProfileByUsername(ctx context.Context, username string) (*domain.InternalProfile, error) {
	if c.internal == nil {
		return nil, fmt.Errorf("no internal profile client configured")
	}

	key := fmt.Sprintf("%s%s:profile:%s", cacheKeyPrefix, domain.SourcePlatform, username)
	return cachedFetch(ctx, c, key, func(ctx context.Context) (*domain.InternalProfile, error) {
		return c.internal.GetProfileByUsername(ctx, username)
	})
}

// cachedFetch is a generic helper: read through the cache, collapse concurrent
// misses, and store successful results.
func cachedFetch[T any](ctx context.Context, c *CachingClient, key string, fetch func(context.Context) (*T, error)) (*T, error) {
	if value, ok := c.lookup(ctx, key); ok {
		var cached T
		if err := json.Unmarshal(value, &cached); err == nil {
			c.logger.Debug("cache hit", zap.String("key", key))
			return &cached, nil
		}
		c.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	}

	c.logger.Debug("cache miss", zap.String("key", key))
	ch := c.group.DoChan(key, func() (interface{}, error) {
		// Detached so one caller giving up does not fail the others
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		value, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, ErrNotFound
		}
		c.store(fetchCtx, key, value)
		return value, nil
	})

	var result singleflight.Result
	select {
	case result = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if result.Err != nil {
		return nil, result.Err
	}

	value, ok := result.Val.(*T)
	if !ok {
		return nil, fmt.Errorf("unexpected cached type for key %s", key)
	}
	return value, nil
}

func (c *CachingClient) lookup(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}

	value, found, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return value, found
}

func (c *CachingClient) store(ctx context.Context, key string, value any) {
	if c.cache == nil || c.ttl <= 0 {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
