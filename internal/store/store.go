// Package store provides key-value byte stores that hold one serialized
// journey map per key.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates nothing is stored under the key.
	ErrNotFound = errors.New("store: record not found")
	// ErrNotConfigured is returned by methods of a closed or nil store.
	ErrNotConfigured = errors.New("store: storage is not configured")
)

// Store persists opaque values under string keys.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendBolt     = "bolt"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Options selects and locates a backend.
type Options struct {
	Backend string
	// Path is a directory for the file backend and a database file for
	// bolt and sqlite.
	Path string
	// DSN is the postgres connection string.
	DSN string
}

// Open returns the store for opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return NewFile(opts.Path)
	case BackendBolt:
		return OpenBolt(opts.Path)
	case BackendSQLite:
		return OpenSQLite(opts.Path)
	case BackendPostgres:
		return OpenPostgres(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", opts.Backend)
	}
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("store: key is required")
	}
	return nil
}
