package cache

import "context"

// LayeredStore puts a process-local memory store in front of a shared store.
// Entries found in the shared store are promoted into memory so repeated
// lookups within one process return the same entry.
type LayeredStore struct {
	memory *MemoryStore
	shared Store
}

// NewLayeredStore creates a layered store over shared
func NewLayeredStore(shared Store) *LayeredStore {
	return &LayeredStore{
		memory: NewMemoryStore(),
		shared: shared,
	}
}

// Get checks memory first, then the shared store
func (l *LayeredStore) Get(ctx context.Context, key string) (*Entry, bool, error) {
	if entry, found, _ := l.memory.Get(ctx, key); found {
		return entry, true, nil
	}

	entry, found, err := l.shared.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}

	promoted, _ := l.memory.Add(ctx, key, entry)
	return promoted, true, nil
}

// Add writes to the shared store and records its winner in memory. A shared
// store failure still leaves the entry in memory.
func (l *LayeredStore) Add(ctx context.Context, key string, entry *Entry) (*Entry, error) {
	winner, err := l.shared.Add(ctx, key, entry)
	if err != nil {
		stored, _ := l.memory.Add(ctx, key, entry)
		return stored, err
	}

	stored, _ := l.memory.Add(ctx, key, winner)
	return stored, nil
}

// Len reports the shared store size
func (l *LayeredStore) Len(ctx context.Context) (int, error) {
	return l.shared.Len(ctx)
}
