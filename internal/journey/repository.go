package journey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"journeymap/internal/store"
)

// Repository stores maps as JSON under their brand and campaign key.
type Repository struct {
	store store.Store
}

func NewRepository(s store.Store) *Repository {
	return &Repository{store: s}
}

// Load returns the map saved under key. The boolean is false when nothing
// has been saved yet.
func (r *Repository) Load(ctx context.Context, key string) (*Map, bool, error) {
	data, err := r.store.Load(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	m, err := Decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return m, true, nil
}

func (r *Repository) Save(ctx context.Context, key string, m *Map) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.store.Save(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists every saved key.
func (r *Repository) Keys(ctx context.Context) ([]string, error) {
	return r.store.Keys(ctx)
}

// Decode parses a persisted or exported map and repairs it.
func Decode(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	m.Normalize()
	return &m, nil
}
