package store

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sourcing-cli/internal/db"
)

// Drivers accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Options selects and configures a backend for Open.
type Options struct {
	Driver string
	DSN    string
	Pool   *db.PoolConfig
	Redis  RedisConfig
}

// Open returns the backend named by opts.Driver, migrated and ready to use.
// An empty driver selects the in-memory store.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverMemory:
		return NewMemory(), nil

	case DriverSQLite:
		st, err := NewSQLite(opts.DSN)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close() //nolint:errcheck
			return nil, err
		}
		zap.L().Debug("store: opened sqlite", zap.String("dsn", opts.DSN))
		return st, nil

	case DriverPostgres:
		st, err := NewPostgres(ctx, opts.DSN, opts.Pool)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close() //nolint:errcheck
			return nil, err
		}
		zap.L().Debug("store: opened postgres")
		return st, nil

	case DriverRedis:
		st, err := NewRedis(ctx, opts.Redis)
		if err != nil {
			return nil, err
		}
		zap.L().Debug("store: opened redis", zap.String("addr", opts.Redis.Addr))
		return st, nil
	}
	return nil, eris.Errorf("store: unknown driver %q", opts.Driver)
}
