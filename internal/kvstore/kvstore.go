// Package kvstore provides the small persistent key-value surface used for
// cached datasets. Callers treat every failure as a cache miss; no error from
// a store is ever escalated past its caller.
package kvstore

// Store is a minimal persistent string key-value store.
type Store interface {
	// Get returns the stored value and true, or "" and false when the key is
	// absent or unreadable.
	Get(key string) (string, bool)
	// Set stores the value under key, replacing any previous value.
	Set(key, value string) error
	// Close releases underlying resources.
	Close() error
}
