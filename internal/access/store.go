// Package access records whether a visitor has passed the resource gate.
//
// The record lives in visitor-local storage reached through the Storage port.
// Reads fail open to "no access" and writes are best effort: the gate is a
// soft nudge, so a broken store only means the prompt may show again.
package access

import (
	"encoding/json"
	"errors"
	"time"
)

// StorageKey is the key the access record is stored under.
const StorageKey = "os_resource_access"

// ErrStorageUnavailable is returned by storages that cannot be read or written.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Method records how access was granted.
type Method string

const (
	MethodSubscribe Method = "subscribe"
	MethodSkip      Method = "skip"
)

// IsValid checks if the method is one of the allowed values.
func (m Method) IsValid() bool {
	return m == MethodSubscribe || m == MethodSkip
}

// Record is the persisted access flag.
type Record struct {
	Accessed bool   `json:"accessed"`
	Method   Method `json:"method"`
	// Timestamp is the grant time in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// Storage is a string key-value store scoped to one visitor.
type Storage interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Store reads and writes the access record.
type Store struct {
	storage Storage
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for grant timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store on top of the given storage.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasAccess reports whether a well-formed record grants access.
// Missing, corrupt, or unreadable storage yields false.
func (s *Store) HasAccess() bool {
	rec, ok := s.Record()
	return ok && rec.Accessed
}

// Record returns the stored record if one can be read and decoded.
func (s *Store) Record() (Record, bool) {
	if s == nil || s.storage == nil {
		return Record{}, false
	}
	raw, ok, err := s.storage.Get(StorageKey)
	if err != nil || !ok {
		return Record{}, false
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Record{}, false
	}
	return rec, true
}

// GrantAccess overwrites the record with a fresh grant.
// Storage failures are swallowed.
func (s *Store) GrantAccess(method Method) {
	if s == nil || s.storage == nil {
		return
	}
	data, err := json.Marshal(Record{
		Accessed:  true,
		Method:    method,
		Timestamp: s.now().UnixMilli(),
	})
	if err != nil {
		return
	}
	_ = s.storage.Set(StorageKey, string(data))
}
