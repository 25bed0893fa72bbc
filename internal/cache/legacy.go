package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// LegacySource is the flat string key/value store that predates the badger cache
type LegacySource interface {
	Keys() ([]string, error)
	Get(key string) (string, bool, error)
	Delete(key string) error
}

// LegacyFile is a LegacySource backed by a YAML map on disk.
// A missing file reads as an empty store.
type LegacyFile struct {
	path string

	mu      sync.Mutex
	entries map[string]string
}

// OpenLegacyFile loads the legacy store at path
func OpenLegacyFile(path string) (*LegacyFile, error) {
	lf := &LegacyFile{path: path, entries: map[string]string{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return lf, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy store %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &lf.entries); err != nil {
		return nil, fmt.Errorf("failed to parse legacy store %s: %w", path, err)
	}
	if lf.entries == nil {
		lf.entries = map[string]string{}
	}

	return lf, nil
}

// Path returns the file backing the store
func (lf *LegacyFile) Path() string {
	return lf.path
}

// Keys returns every key in sorted order
func (lf *LegacyFile) Keys() ([]string, error) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	keys := make([]string, 0, len(lf.entries))
	for k := range lf.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Get returns the value stored under key
func (lf *LegacyFile) Get(key string) (string, bool, error) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	v, ok := lf.entries[key]
	return v, ok, nil
}

// Set adds or replaces a key and persists the file
func (lf *LegacyFile) Set(key, value string) error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	lf.entries[key] = value
	return lf.save()
}

// Delete removes a key and persists the file
func (lf *LegacyFile) Delete(key string) error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if _, ok := lf.entries[key]; !ok {
		return nil
	}
	delete(lf.entries, key)
	return lf.save()
}

func (lf *LegacyFile) save() error {
	data, err := yaml.Marshal(lf.entries)
	if err != nil {
		return fmt.Errorf("failed to marshal legacy store: %w", err)
	}

	if dir := filepath.Dir(lf.path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create legacy store directory: %w", err)
		}
	}

	if err := os.WriteFile(lf.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write legacy store %s: %w", lf.path, err)
	}

	return nil
}
