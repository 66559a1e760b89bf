package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
)

// Store persists the whole catalog. Writes replace the previous catalog
// entirely; concurrent writers from different processes are last-writer-wins.
type Store interface {
	Load(ctx context.Context) ([]Asset, error)
	Save(ctx context.Context, assets []Asset) error
}

// Compile-time interface checks.
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*RedisStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// MemoryStore keeps the catalog in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	assets []Asset
	saves  int
}

// NewMemoryStore creates a MemoryStore seeded with assets.
func NewMemoryStore(assets ...Asset) *MemoryStore {
	return &MemoryStore{assets: slices.Clone(assets)}
}

// Load returns a copy of the stored catalog.
func (m *MemoryStore) Load(ctx context.Context) ([]Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.assets), nil
}

// Save replaces the stored catalog with a copy of assets.
func (m *MemoryStore) Save(ctx context.Context, assets []Asset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets = slices.Clone(assets)
	m.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// encodeAssets serializes a catalog for key/value stores.
func encodeAssets(assets []Asset) ([]byte, error) {
	if assets == nil {
		assets = []Asset{}
	}
	data, err := json.Marshal(assets)
	if err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	return data, nil
}

// decodeAssets parses a catalog written by encodeAssets.
func decodeAssets(data []byte) ([]Asset, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var assets []Asset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return assets, nil
}
