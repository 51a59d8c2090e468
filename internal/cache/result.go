package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/role-scout/internal/model"
)

// DefaultTTL is how long a resolved lookup stays cached.
const DefaultTTL = 24 * time.Hour

const keyPrefix = "lookup:"

// Key returns the cache key for a (company, role) pair.
func Key(company, role string) string {
	return keyPrefix + model.LookupRequest{Company: company, Role: role}.Key()
}

// cachedResult drops the cache flag from the stored JSON. The outer field
// shadows the embedded one.
type cachedResult struct {
	model.LookupResult
	Cache *bool `json:"cache,omitempty"`
}

// ResultCache stores resolved lookups. Every failure is logged and treated
// as a miss, so a nil or broken store only costs extra lookups.
type ResultCache struct {
	store Store
	ttl   time.Duration
}

// NewResultCache wraps store. A non-positive ttl uses DefaultTTL.
func NewResultCache(store Store, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{store: store, ttl: ttl}
}

// Get returns the cached result for (company, role) marked Cache=true.
func (c *ResultCache) Get(ctx context.Context, company, role string) (model.LookupResult, bool) {
	if c == nil || c.store == nil {
		return model.LookupResult{}, false
	}

	key := Key(company, role)
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		zap.L().Debug("cache: get failed", zap.String("key", key), zap.Error(err))
		return model.LookupResult{}, false
	}
	if !ok {
		return model.LookupResult{}, false
	}

	var r model.LookupResult
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		zap.L().Debug("cache: discard undecodable entry", zap.String("key", key), zap.Error(err))
		return model.LookupResult{}, false
	}
	if !r.IsResolved() {
		return model.LookupResult{}, false
	}
	r.Cache = true
	return r, true
}

// Put stores result unless it is an error or lacks a resolved name. Store
// failures are swallowed.
func (c *ResultCache) Put(ctx context.Context, company, role string, result model.LookupResult) {
	if c == nil || c.store == nil {
		return
	}
	if result.IsError() || strings.TrimSpace(result.FirstName) == "" || strings.TrimSpace(result.LastName) == "" {
		return
	}

	data, err := json.Marshal(cachedResult{LookupResult: result})
	if err != nil {
		zap.L().Debug("cache: marshal failed", zap.Error(err))
		return
	}

	key := Key(company, role)
	if err := c.store.SetWithTTL(ctx, key, string(data), c.ttl); err != nil {
		zap.L().Debug("cache: put failed", zap.String("key", key), zap.Error(err))
	}
}

// Store returns the underlying store, which may be nil.
func (c *ResultCache) Store() Store {
	if c == nil {
		return nil
	}
	return c.store
}
