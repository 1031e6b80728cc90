package kv

import (
	"context"
	"fmt"
)

// Store reads and writes string values by key.
//
// Get reports ok=false with a nil error for a missing key. Set replaces any
// existing value.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string
	DBPath   string
	RedisURL string
}

// Closer is implemented by backends that hold connections.
type Closer interface {
	Close() error
}

// Open constructs the backend named in opts. The caller should Close the
// result when it implements Closer.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendSQLite:
		return OpenSQLite(opts.DBPath)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisURL)
	default:
		return nil, fmt.Errorf("unknown kv backend %q (want memory, sqlite or redis)", opts.Backend)
	}
}

// Close closes s if it holds resources.
func Close(s Store) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
