// ABOUTME: Durable key-value store interface used for settings and session flags.
// ABOUTME: Implementations wrap Badger directly or Charm KV.
package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("key not found")

// ErrReadOnly is returned by writes when another process holds the lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

// Store is a small durable key-value store.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	// Apply writes puts and removes dels in one transaction.
	Apply(puts map[string][]byte, dels []string) error
	// Keys returns every key with the given prefix.
	Keys(prefix string) ([]string, error)
	Close() error
}

// Syncer is a Store that replicates to a remote.
type Syncer interface {
	Sync() error
	IsReadOnly() bool
}

// GetJSON reads key and unmarshals it into v. It returns ErrNotFound
// unchanged so callers can fall back to defaults.
func GetJSON(s Store, key string, v any) error {
	data, err := s.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(key, data)
}

// DeletePrefix removes every key with the given prefix.
func DeletePrefix(s Store, prefix string) error {
	keys, err := s.Keys(prefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.Apply(nil, keys)
}
