// iface.go defines Interface for dependency injection and testing.
//
// Properties, the ticket manager and the CLI accept Interface rather
// than *Store. The contract is get/set/delete over the whole document;
// a backend that persisted per key would satisfy it unchanged.
package store

import "encoding/json"

// Interface is the durable key/value contract.
type Interface interface {
	// Get returns the raw JSON under key.
	Get(key string) (json.RawMessage, bool)

	// Lookup decodes the value under key into dst; false if absent.
	Lookup(key string, dst any) (bool, error)

	// Contains reports whether key is present.
	Contains(key string) bool

	// Set stores value under key. Persisted before returning.
	Set(key string, value any) error

	// Delete removes key. Persisted before returning.
	Delete(key string) error

	// Merge sets several keys with one write.
	Merge(values map[string]json.RawMessage) error

	// Keys returns all keys, sorted.
	Keys() []string

	// Snapshot returns a copy of the whole mapping.
	Snapshot() map[string]json.RawMessage
}

// Compile-time check that *Store implements Interface.
var _ Interface = (*Store)(nil)
