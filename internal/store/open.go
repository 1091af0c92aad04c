// internal/store/open.go
//
// Store driver selection.
// Responsibilities:
//   - Map a driver name to a memory, sqlite, or redis Store.
//   - Reject unknown drivers with ErrUnknownDriver.

package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown store driver")

// Options selects and configures a Store backend.
type Options struct {
	Driver    string // memory | sqlite | redis
	SQLiteDSN string
	Redis     RedisOptions
}

// Open builds the Store named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(opts.SQLiteDSN)
	case "redis":
		return NewRedisStore(ctx, opts.Redis)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
