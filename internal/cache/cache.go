package cache

import (
	"context"
	"errors"
)

// DefaultKeyPrefix namespaces verdict keys in shared stores
const DefaultKeyPrefix = "veritas:v1:"

// ErrBackend wraps failures of a remote store
var ErrBackend = errors.New("cache backend error")

// Store holds verdicts by claim fingerprint. Entries never expire.
type Store interface {
	// Get returns the stored value for key
	Get(ctx context.Context, key string) (*Entry, bool, error)
	// Add stores entry only if key is absent and returns whichever entry
	// is stored afterwards, so concurrent writers agree on one winner
	Add(ctx context.Context, key string, entry *Entry) (*Entry, error)
	// Len reports the number of stored entries
	Len(ctx context.Context) (int, error)
}

// Key builds the store key for a claim fingerprint
func Key(prefix, fingerprint string) string {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return prefix + fingerprint
}
