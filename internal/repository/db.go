package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" driver for postgres DSNs
	_ "modernc.org/sqlite"             // "sqlite" driver for file/embedded DSNs
)

type Config struct {
	DSN              string
	MaxConns         int
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// DB wraps database/sql with the dialect it was opened against. Queries are
// written with ? placeholders and rebound to $n for Postgres.
type DB struct {
	*sql.DB
	driver string // "sqlite" | "pgx"
}

// Open connects to the configured database. DSNs beginning with postgres://
// (or postgresql://) use the pgx stdlib driver; everything else is treated as
// a SQLite path/URI.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver := "sqlite"
	dsn := cfg.DSN
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "pgx"
	} else {
		dsn = sqliteDSN(dsn)
	}
	logger.Info("connecting to database", "driver", driver)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return nil, err
	}
	if driver == "sqlite" {
		// modernc returns SQLITE_BUSY to a second writer, so concurrent
		// workers need a single connection to serialize through.
		db.SetMaxOpenConns(1)
	} else if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to connect to database", "error", err)
		_ = db.Close()
		return nil, err
	}

	logger.Info("successfully connected to database")
	return &DB{DB: db, driver: driver}, nil
}

// sqliteDSN appends a busy timeout so a locked database retries instead of
// failing immediately with SQLITE_BUSY.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)"
}

// Close closes the database connection gracefully.
func (d *DB) Close(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := d.DB.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
		return
	}
	logger.Info("database connection closed")
}

// Rebind rewrites ? placeholders to $1..$n when the underlying driver is pgx.
func (d *DB) Rebind(query string) string {
	if d.driver != "pgx" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// HealthCheck pings the database, catching DSN issues early.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return d.PingContext(ctx)
}
