package access

import "sync"

// MemoryStorage keeps values in process memory.
type MemoryStorage struct {
	data map[string]string
	mu   sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// MirrorStorage is a server-side copy of the visitor's browser storage.
// It is seeded with the values the browser reported when its socket joined,
// and every write is forwarded through sink so the browser can persist it.
type MirrorStorage struct {
	local *MemoryStorage
	sink  func(key, value string) error
}

// NewMirrorStorage creates a mirror seeded with initial values.
// A nil sink makes the mirror behave like MemoryStorage.
func NewMirrorStorage(initial map[string]string, sink func(key, value string) error) *MirrorStorage {
	m := &MirrorStorage{
		local: NewMemoryStorage(),
		sink:  sink,
	}
	for k, v := range initial {
		m.local.data[k] = v
	}
	return m
}

func (m *MirrorStorage) Get(key string) (string, bool, error) {
	return m.local.Get(key)
}

// Set updates the local copy first so reads in the same session see the
// write even if forwarding to the browser fails.
func (m *MirrorStorage) Set(key, value string) error {
	if err := m.local.Set(key, value); err != nil {
		return err
	}
	if m.sink == nil {
		return nil
	}
	return m.sink(key, value)
}

// UnavailableStorage fails every operation, modelling storage the client
// has disabled.
type UnavailableStorage struct{}

func (UnavailableStorage) Get(string) (string, bool, error) {
	return "", false, ErrStorageUnavailable
}

func (UnavailableStorage) Set(string, string) error {
	return ErrStorageUnavailable
}
