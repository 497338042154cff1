// Package postgres implements storage.ProcessedStore on PostgreSQL using a pgx
// pool, goqu for query building and goose-managed migrations.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"lemmony/pkg/storage"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Options defines the configuration parameters for PostgreSQL database connection.
type Options struct {
	// Username is the PostgreSQL user to connect as
	Username string
	// Password is the password for the specified user
	Password string
	// Host is the PostgreSQL server hostname or IP address
	Host string
	// SslMode specifies the SSL mode for the connection (e.g., "disable", "require")
	SslMode string
	// Port is the PostgreSQL server port number
	Port int
	// Database is the name of the database to connect to
	Database string
	// MaxConnections caps the pool. A run only ever uses one connection at a time.
	MaxConnections int
	// ConnMaxLifetime is the maximum amount of time a connection may be reused
	ConnMaxLifetime time.Duration
	// TTL is how long a processed actor stays processed. Zero never expires
	TTL time.Duration
}

// PgSQL stores processed actors in the processed_actors table.
type PgSQL struct {
	// DB wraps Pool for goqu and goose.
	DB *sql.DB
	// Builder is the goqu handle bound to DB.
	Builder *goqu.Database
	// Pool is the underlying pgx connection pool.
	Pool *pgxpool.Pool

	ttl time.Duration
}

// Close closes the database/sql wrapper and the pgx pool.
func (p *PgSQL) Close() error {
	var err error
	if p.DB != nil {
		err = p.DB.Close()
	}
	if p.Pool != nil {
		p.Pool.Close()
	}
	if err != nil {
		return fmt.Errorf("could not close postgres: %w", err)
	}

	return nil
}

// New creates a pgx pool and a database/sql wrapper for goqu and migrations.
// The connection is verified with a ping.
func New(ctx context.Context, options Options) (*PgSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s sslmode=%s",
		options.Host,
		options.Port,
		options.Username,
		options.Database,
		options.Password,
		options.SslMode)
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("could not parse pgxpool config: %w", err)
	}
	if options.MaxConnections > 0 {
		cfg.MaxConns = int32(options.MaxConnections) //nolint: gosec
	}
	if options.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = options.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("could not reach postgres: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	return &PgSQL{
		DB:      sqlDB,
		Builder: goqu.Dialect("postgres").DB(sqlDB),
		Pool:    pool,
		ttl:     options.TTL,
	}, nil
}

var _ storage.ProcessedStore = (*PgSQL)(nil)
