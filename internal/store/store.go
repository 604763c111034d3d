// Package store implements a persistent, YAML-backed key/value store,
// opened by the client at startup and saved on quit. The scripting
// host's store library does not read or write it: that library keeps its
// own in-memory map, which survives a host Reset but is not saved to disk.
package store

import (
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store is a file-backed map[string]any, safe for single-goroutine use
// the way the host itself is (the main loop owns both).
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]interface{}
}

// Open loads path if it exists, or starts empty if it doesn't — a
// missing store file is not an error, matching a fresh first run.
func Open(path string) (*Store, error) {
	s := &Store{path: path, data: map[string]interface{}{}}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, &s.data); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the value for key and whether it was present.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// Set stores value under key, overwriting any previous value.
func (s *Store) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Delete removes key, a no-op if it was not present.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Snapshot returns a shallow copy of every key/value pair.
func (s *Store) Snapshot() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]interface{}, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// Restore replaces the store's contents with snapshot, the inverse of
// Snapshot.
func (s *Store) Restore(snapshot map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]interface{}, len(snapshot))
	for k, v := range snapshot {
		s.data[k] = v
	}
}

// Save serializes the store to its backing file.
func (s *Store) Save() error {
	s.mu.Lock()
	b, err := yaml.Marshal(s.data)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}
