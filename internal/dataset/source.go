package dataset

import (
	"context"
	"fmt"

	"github.com/awaistahir/smart-wash/internal/engine"
	"github.com/awaistahir/smart-wash/internal/store"
)

// Source provides the historical usage table
type Source interface {
	// ID identifies the current contents for caching
	ID(ctx context.Context) string
	Kind() string
	Load(ctx context.Context) ([]engine.UsageRecord, error)
}

// StoreSource reads the historical table from the SQLite store
type StoreSource struct {
	store *store.Store
}

// NewStoreSource wraps an open store
func NewStoreSource(st *store.Store) *StoreSource {
	return &StoreSource{store: st}
}

// ID changes whenever the table is re-imported, since row ids keep increasing
func (s *StoreSource) ID(ctx context.Context) string {
	version, err := s.store.Version(ctx)
	if err != nil {
		return "sqlite:" + s.store.Path()
	}
	return fmt.Sprintf("sqlite:%s@%d", s.store.Path(), version)
}

func (s *StoreSource) Kind() string {
	return "sqlite"
}

func (s *StoreSource) Load(ctx context.Context) ([]engine.UsageRecord, error) {
	records, err := s.store.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading dataset from store: %w", err)
	}
	return records, nil
}
