// ABOUTME: Charm KV-backed Store for users who want their settings on Charm Cloud.
// ABOUTME: Writes sync after each change unless the database is read-only.
package kvstore

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
)

const defaultCharmHost = "charm.2389.dev"

var _ Syncer = (*Charm)(nil)

// Charm is a Store backed by a Charm KV database.
type Charm struct {
	kv *kv.KV
	mu sync.RWMutex
}

// OpenCharm opens the named Charm KV database. CHARM_HOST is respected when
// set, otherwise the default host is used.
func OpenCharm(name string) (*Charm, error) {
	if os.Getenv("CHARM_HOST") == "" {
		if err := os.Setenv("CHARM_HOST", defaultCharmHost); err != nil {
			return nil, err
		}
	}

	db, err := kv.OpenWithDefaultsFallback(name)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	c := &Charm{kv: db}
	// Pull remote data on startup (skip in read-only mode)
	if !db.IsReadOnly() {
		_ = db.Sync()
	}
	return c, nil
}

// IsReadOnly reports whether another process holds the database lock.
func (c *Charm) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Charm) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

func (c *Charm) syncAfterWrite() {
	if !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// Get returns the value for key.
func (c *Charm) Get(key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, err := c.kv.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return val, nil
}

// Set stores value under key.
func (c *Charm) Set(key string, value []byte) error {
	return c.Apply(map[string][]byte{key: value}, nil)
}

// Delete removes key.
func (c *Charm) Delete(key string) error {
	return c.Apply(nil, []string{key})
}

// Apply writes puts and removes dels, syncing once at the end.
func (c *Charm) Apply(puts map[string][]byte, dels []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	for k, v := range puts {
		if err := c.kv.Set([]byte(k), v); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	for _, k := range dels {
		if err := c.kv.Delete([]byte(k)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete %s: %w", k, err)
		}
	}
	c.syncAfterWrite()
	return nil
}

// Keys lists keys with the given prefix.
func (c *Charm) Keys(prefix string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all, err := c.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	var keys []string
	for _, k := range all {
		if strings.HasPrefix(string(k), prefix) {
			keys = append(keys, string(k))
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the database connection.
func (c *Charm) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}
