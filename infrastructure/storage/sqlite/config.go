// Package sqlite provides a SQLite-backed provider catalog source.
package sqlite

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Errors
var (
	ErrConnectionFailed = errors.New("sqlite: connection failed")
	ErrMigrationFailed  = errors.New("sqlite: migration failed")
)

// Config locates a catalog database and tunes its connection pool.
type Config struct {
	// DSN is passed to the sqlite3 driver, e.g. "file:catalog.db?mode=rwc".
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// AutoMigrate creates the providers table on open.
	AutoMigrate bool

	// JournalMode and BusyTimeout (milliseconds) become PRAGMAs on open.
	// Zero values leave the SQLite defaults.
	JournalMode string
	BusyTimeout int
}

// DefaultConfig returns the configuration used by the CLI: a WAL database
// in the working directory, migrated on open.
func DefaultConfig() Config {
	return Config{
		DSN:             "file:catalog.db?mode=rwc",
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		AutoMigrate:     true,
		JournalMode:     "WAL",
		BusyTimeout:     5000,
	}
}

// Option adjusts a Config.
type Option func(*Config)

// WithDSN sets the data source name.
func WithDSN(dsn string) Option {
	return func(c *Config) { c.DSN = dsn }
}

// WithPath points the store at a database file, creating it if needed.
func WithPath(path string) Option {
	return func(c *Config) { c.DSN = "file:" + path + "?mode=rwc" }
}

// WithMaxOpenConns caps the open connections.
func WithMaxOpenConns(n int) Option {
	return func(c *Config) { c.MaxOpenConns = n }
}

// WithAutoMigrate creates the providers table on open.
func WithAutoMigrate() Option {
	return func(c *Config) { c.AutoMigrate = true }
}

// WithJournalMode sets the journal mode, e.g. "WAL".
func WithJournalMode(mode string) Option {
	return func(c *Config) { c.JournalMode = mode }
}

// WithBusyTimeout sets how long a writer waits on a locked database, in milliseconds.
func WithBusyTimeout(ms int) Option {
	return func(c *Config) { c.BusyTimeout = ms }
}

func (c Config) pragmas() []string {
	var pragmas []string
	if c.JournalMode != "" {
		pragmas = append(pragmas, "PRAGMA journal_mode="+c.JournalMode)
	}
	if c.BusyTimeout > 0 {
		pragmas = append(pragmas, "PRAGMA busy_timeout="+strconv.Itoa(c.BusyTimeout))
	}
	return pragmas
}

func openDB(cfg Config) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	for _, pragma := range cfg.pragmas() {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.Join(ErrMigrationFailed, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	return db, nil
}
