package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/felixgeelhaar/opregistry/domain/provider"
)

// CatalogStore is a SQLite-backed provider catalog. Provider ids are not
// unique in storage so that a misconfigured catalog can be loaded and reported
// at resolve time instead of being silently collapsed.
type CatalogStore struct {
	db *sql.DB
}

// NewCatalogStore creates a catalog store with the given configuration.
func NewCatalogStore(cfg Config, opts ...Option) (*CatalogStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &CatalogStore{db: db}

	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return s, nil
}

// NewCatalogStoreFromDB creates a catalog store from an existing database connection.
func NewCatalogStoreFromDB(db *sql.DB) (*CatalogStore, error) {
	s := &CatalogStore{db: db}

	if err := s.migrate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *CatalogStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS providers (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			tag TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_providers_id ON providers(id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}

// Save appends a provider to the catalog.
func (s *CatalogStore) Save(ctx context.Context, p provider.Provider) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO providers (id, tag, created_at) VALUES (?, ?, ?)",
		p.ID, string(p.Tag), time.Now().Unix(),
	)
	return err
}

// Load returns every provider in insertion order.
func (s *CatalogStore) Load(ctx context.Context) ([]provider.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, tag FROM providers ORDER BY seq")
	if err != nil {
		return nil, err
	}
	return scanProviders(rows)
}

// FindByID returns every provider registered under id.
func (s *CatalogStore) FindByID(ctx context.Context, id string) ([]provider.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, tag FROM providers WHERE id = ? ORDER BY seq", id)
	if err != nil {
		return nil, err
	}
	return scanProviders(rows)
}

// Delete removes every provider registered under id.
func (s *CatalogStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM providers WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &provider.NotFoundError{ID: id}
	}
	return nil
}

// Count returns the number of stored providers.
func (s *CatalogStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM providers").Scan(&n)
	return n, err
}

// Close closes the database connection.
func (s *CatalogStore) Close() error {
	return s.db.Close()
}

func scanProviders(rows *sql.Rows) ([]provider.Provider, error) {
	defer rows.Close()

	var providers []provider.Provider
	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, err
		}
		p := provider.Provider{ID: id, Tag: provider.CapabilityTag(tag)}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}
