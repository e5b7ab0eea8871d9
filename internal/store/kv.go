// Package store holds the in-memory cached stores that wrap the
// repositories: load replaces the cache wholesale, mutations go through the
// repository first and only then touch the cache, and derived views are pure
// functions over the current snapshot.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// FileKV is the process-local durable key/value slot. Appearance preferences
// and the developer-mode subscription override survive a restart through it.
type FileKV struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
}

// NewFileKV opens (or creates) the slot at path.
func NewFileKV(path string) (*FileKV, error) {
	kv := &FileKV{path: path, data: map[string]json.RawMessage{}}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return kv, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &kv.data); err != nil {
			return nil, err
		}
	}
	return kv, nil
}

// Get unmarshals the value stored under key into out. Returns false when the
// key is absent.
func (kv *FileKV) Get(key string, out interface{}) (bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	raw, ok := kv.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value under key and flushes to disk.
func (kv *FileKV) Set(key string, value interface{}) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	kv.data[key] = raw
	return kv.flush()
}

// Delete removes a key and flushes to disk.
func (kv *FileKV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	delete(kv.data, key)
	return kv.flush()
}

func (kv *FileKV) flush() error {
	raw, err := json.MarshalIndent(kv.data, "", "  ")
	if err != nil {
		return err
	}

	tmp := kv.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, kv.path)
}
