// Package cache persists resolved lookups in a TTL-bounded key-value store.
package cache

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// Store is a string key-value store with per-key expiry. Implementations
// must be safe for concurrent use.
type Store interface {
	// Get returns the value for key. A missing or expired key reports false
	// with a nil error.
	Get(ctx context.Context, key string) (string, bool, error)
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

// Purger is implemented by stores that keep expired rows until removed.
type Purger interface {
	DeleteExpired(ctx context.Context) (int, error)
}

// Backend names accepted by Open.
const (
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendNone     = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	RedisURL    string
	SQLitePath  string
	PostgresURL string
	MaxConns    int32
}

// Open connects to the configured backend and prepares its schema. The
// "none" backend returns a nil Store, which ResultCache treats as always
// empty.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendRedis:
		s, err := NewRedis(ctx, opts.RedisURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := NewSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	case BackendPostgres:
		s, err := NewPostgres(ctx, opts.PostgresURL, opts.MaxConns)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	case BackendNone, "":
		return nil, nil
	}
	return nil, eris.Errorf("cache: unknown backend %q", opts.Backend)
}
