package cache

import (
	"context"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/veritas/internal/model"
)

// Entry is one cached verdict
type Entry struct {
	Verdict *model.Verdict `json:"verdict"`
}

// MemoryStore keeps verdicts in process memory for the life of the process
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates an empty memory store with no expiry and no janitor
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get retrieves an entry
func (m *MemoryStore) Get(_ context.Context, key string) (*Entry, bool, error) {
	if val, found := m.cache.Get(key); found {
		return val.(*Entry), true, nil
	}
	return nil, false, nil
}

// Add inserts the entry unless the key already exists
func (m *MemoryStore) Add(_ context.Context, key string, entry *Entry) (*Entry, error) {
	if err := m.cache.Add(key, entry, gocache.NoExpiration); err == nil {
		return entry, nil
	}
	if val, found := m.cache.Get(key); found {
		return val.(*Entry), nil
	}
	return entry, nil
}

// Len returns the number of entries
func (m *MemoryStore) Len(_ context.Context) (int, error) {
	return m.cache.ItemCount(), nil
}
