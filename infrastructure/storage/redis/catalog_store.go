package redis

import (
	"context"
	"errors"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/opregistry/domain/provider"
)

// CatalogStore keeps providers in a Redis hash mapping provider id to
// capability tag. A hash holds one tag per id, so duplicates cannot arise here.
type CatalogStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewCatalogStore connects to Redis and returns a catalog store.
func NewCatalogStore(cfg Config, opts ...ConfigOption) (*CatalogStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := redis.NewClient(cfg.clientOptions())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	return NewCatalogStoreFromClient(client, cfg.KeyPrefix), nil
}

// NewCatalogStoreFromClient creates a catalog store from an existing Redis client.
func NewCatalogStoreFromClient(client *redis.Client, keyPrefix string) *CatalogStore {
	return &CatalogStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (s *CatalogStore) key() string {
	return s.keyPrefix + "providers"
}

// Save stores p, replacing any tag previously stored for its id.
func (s *CatalogStore) Save(ctx context.Context, p provider.Provider) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	return wrapError(s.client.HSet(ctx, s.key(), p.ID, string(p.Tag)).Err())
}

// Load returns every provider ordered by id.
func (s *CatalogStore) Load(ctx context.Context) ([]provider.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := s.client.HGetAll(ctx, s.key()).Result()
	if err != nil {
		return nil, wrapError(err)
	}
	return toProviders(entries)
}

// FindByID returns the provider stored under id, if any.
func (s *CatalogStore) FindByID(ctx context.Context, id string) ([]provider.Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tag, err := s.client.HGet(ctx, s.key(), id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapError(err)
	}
	p := provider.Provider{ID: id, Tag: provider.CapabilityTag(tag)}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return []provider.Provider{p}, nil
}

// Delete removes the provider stored under id.
func (s *CatalogStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n, err := s.client.HDel(ctx, s.key(), id).Result()
	if err != nil {
		return wrapError(err)
	}
	if n == 0 {
		return &provider.NotFoundError{ID: id}
	}
	return nil
}

// Close closes the Redis client.
func (s *CatalogStore) Close() error {
	return s.client.Close()
}

// toProviders converts hash fields to providers sorted by id. Entries written
// around Save, such as an empty tag, are rejected.
func toProviders(entries map[string]string) ([]provider.Provider, error) {
	providers := make([]provider.Provider, 0, len(entries))
	for id, tag := range entries {
		p := provider.Provider{ID: id, Tag: provider.CapabilityTag(tag)}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool {
		return providers[i].ID < providers[j].ID
	})
	return providers, nil
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrOperationTimeout, err)
	}

	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.Join(ErrOperationTimeout, err)
	}

	return err
}
