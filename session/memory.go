package session

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is an in-process Store backed by a map, round-tripping values
// through JSON so Get/GetList behave identically to a real persistence
// backend (the caller must pass the same shape in and out). Used by unit
// tests and by any caller that doesn't need cross-process durability.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory constructs an empty in-process store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func entryKey(key, subKey string) string { return key + "\x00" + subKey }

// Save implements Store.
func (m *Memory) Save(ctx context.Context, key, subKey string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entryKey(key, subKey)] = data
	return nil
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, key, subKey string, out any) (bool, error) {
	m.mu.RLock()
	data, ok := m.entries[entryKey(key, subKey)]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// GetList implements Store.
func (m *Memory) GetList(ctx context.Context, key, subKey string, out any) (bool, error) {
	return m.Get(ctx, key, subKey, out)
}
