// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/samber/oops"
)

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// AutoMigrate applies pending migrations before Open returns.
	AutoMigrate bool
}

// DefaultOptions returns the pool settings used when none are configured.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		AutoMigrate:     true,
	}
}

// DB wraps a *sql.DB shared by the repositories.
type DB struct {
	sql *sql.DB
}

// Open connects to PostgreSQL, pings, and optionally runs migrations.
// connStr must be a postgres:// URL.
func Open(connStr string, opts Options) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, oops.Code("DB_OPEN_FAILED").Wrap(err)
	}
	s.SetMaxOpenConns(opts.MaxOpenConns)
	s.SetMaxIdleConns(opts.MaxIdleConns)
	s.SetConnMaxLifetime(opts.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, oops.Code("DB_PING_FAILED").Wrap(err)
	}

	if opts.AutoMigrate {
		if err := migrateUp(connStr); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return &DB{sql: s}, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Ping checks that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

func migrateUp(connStr string) error {
	m, err := NewMigrator(connStr)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
