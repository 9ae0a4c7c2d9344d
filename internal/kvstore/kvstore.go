// Package kvstore provides durable string-keyed blob storage for the
// tenant collections. Two backends exist: one JSON file per key, and a
// single SQLite table. Both treat unreadable values as absent so a
// corrupt record degrades to an empty collection instead of taking the
// application down.
package kvstore

// Store is the persistence contract the repositories are built on.
// There is no transactionality across keys; each Set replaces the
// whole value for its key (last write wins).
type Store interface {
	// Get returns the stored value and whether the key exists. A
	// value that cannot be read is reported as absent, not as an
	// error.
	Get(key string) ([]byte, bool, error)

	// Set durably replaces the value for key. Failures (quota, I/O)
	// are returned to the caller rather than swallowed.
	Set(key string, value []byte) error

	// Delete removes the key. Deleting a missing key is a no-op.
	Delete(key string) error

	// Keys lists stored keys with the given prefix.
	Keys(prefix string) ([]string, error)

	Close() error
}
