package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB is a goqu database bound to the dialect of the underlying driver.
type DB struct {
	*goqu.Database
	conn *sql.DB
}

type backend struct {
	driver  string
	dialect string
	dsn     string
}

// Open connects to the store named by databaseURL, pings it and applies the schema.
//
// postgres:// and postgresql:// URLs use pgx, libsql:// and wss:// URLs use the libSQL client,
// anything else is treated as a SQLite file path.
func Open(ctx context.Context, databaseURL string) (*DB, error) {
	b := resolveBackend(databaseURL)

	conn, err := sql.Open(b.driver, b.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Debug().Str("driver", b.driver).Msg("database connection successful")

	if err := migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info().Str("driver", b.driver).Msg("migrations completed successfully")

	return &DB{
		Database: goqu.New(b.dialect, conn),
		conn:     conn,
	}, nil
}

func (d *DB) Ping(ctx context.Context) error {
	return d.conn.PingContext(ctx)
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func resolveBackend(databaseURL string) backend {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return backend{driver: "pgx", dialect: "postgres", dsn: databaseURL}
	case strings.HasPrefix(databaseURL, "libsql://"), strings.HasPrefix(databaseURL, "wss://"):
		return backend{driver: "libsql", dialect: "sqlite3", dsn: databaseURL}
	default:
		return backend{driver: "sqlite", dialect: "sqlite3", dsn: formatDBPath(databaseURL)}
	}
}

func formatDBPath(path string) string {
	if path == "" {
		path = "shortener.db"
	}

	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	// Caller supplied its own parameters (e.g. an in-memory database).
	if strings.Contains(path, "?") {
		return path
	}

	// See: https://pkg.go.dev/modernc.org/sqlite#pkg-overview
	params := url.Values{}
	params.Set("cache", "shared")
	params.Set("mode", "rwc")
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "synchronous(NORMAL)")
	params.Add("_pragma", "busy_timeout(5000)")

	return path + "?" + params.Encode()
}

// Timestamps are ISO-8601 text so the same schema runs on SQLite, libSQL and Postgres.
// visits.link_id has no foreign key, visits outlive their link.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		url TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		title TEXT,
		expires_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS visits (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		link_id TEXT NOT NULL,
		city TEXT,
		country TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_links_url ON links(url)`,
	`CREATE INDEX IF NOT EXISTS idx_visits_link_id ON visits(link_id)`,
}

func migrate(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// IsUniqueViolation reports whether err was caused by a UNIQUE constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	// libSQL only surfaces the server message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
