package access

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.UnixMilli(1_700_000_000_000)
}

func TestStore_NoAccessBeforeGrant(t *testing.T) {
	s := NewStore(NewMemoryStorage())
	assert.False(t, s.HasAccess())

	_, ok := s.Record()
	assert.False(t, ok)
}

func TestStore_GrantAccess(t *testing.T) {
	for _, method := range []Method{MethodSubscribe, MethodSkip} {
		t.Run(string(method), func(t *testing.T) {
			storage := NewMemoryStorage()
			s := NewStore(storage, WithClock(fixedClock))

			s.GrantAccess(method)

			assert.True(t, s.HasAccess())
			rec, ok := s.Record()
			require.True(t, ok)
			assert.Equal(t, method, rec.Method)
			assert.Equal(t, int64(1_700_000_000_000), rec.Timestamp)

			raw, ok, err := storage.Get(StorageKey)
			require.NoError(t, err)
			require.True(t, ok)

			var decoded map[string]any
			require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
			assert.Equal(t, true, decoded["accessed"])
			assert.Equal(t, string(method), decoded["method"])
			assert.EqualValues(t, 1_700_000_000_000, decoded["timestamp"])
		})
	}
}

func TestStore_GrantOverwrites(t *testing.T) {
	s := NewStore(NewMemoryStorage())
	s.GrantAccess(MethodSkip)
	s.GrantAccess(MethodSubscribe)

	rec, ok := s.Record()
	require.True(t, ok)
	assert.Equal(t, MethodSubscribe, rec.Method)
}

func TestStore_CorruptRecordFailsClosed(t *testing.T) {
	cases := map[string]string{
		"not json":       "{accessed:true",
		"accessed false": `{"accessed":false,"method":"skip","timestamp":1}`,
		"wrong type":     `{"accessed":"yes"}`,
		"array":          `[true]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			storage := NewMemoryStorage()
			require.NoError(t, storage.Set(StorageKey, raw))
			assert.False(t, NewStore(storage).HasAccess())
		})
	}
}

func TestStore_UnavailableStorageIsSilent(t *testing.T) {
	s := NewStore(UnavailableStorage{})

	assert.NotPanics(t, func() { s.GrantAccess(MethodSkip) })
	assert.False(t, s.HasAccess())
}

func TestStore_NilSafe(t *testing.T) {
	var s *Store
	assert.False(t, s.HasAccess())
	assert.NotPanics(t, func() { s.GrantAccess(MethodSkip) })
	assert.False(t, NewStore(nil).HasAccess())
}

func TestMirrorStorage_SeedsAndForwards(t *testing.T) {
	var forwarded []string
	m := NewMirrorStorage(map[string]string{
		StorageKey: `{"accessed":true,"method":"skip","timestamp":5}`,
	}, func(key, value string) error {
		forwarded = append(forwarded, key+"="+value)
		return nil
	})

	s := NewStore(m, WithClock(fixedClock))
	assert.True(t, s.HasAccess())

	s.GrantAccess(MethodSubscribe)
	require.Len(t, forwarded, 1)
	assert.Contains(t, forwarded[0], StorageKey+"=")
	assert.Contains(t, forwarded[0], `"method":"subscribe"`)
}

func TestMirrorStorage_SinkFailureKeepsLocalCopy(t *testing.T) {
	m := NewMirrorStorage(nil, func(string, string) error {
		return errors.New("socket closed")
	})
	s := NewStore(m)

	s.GrantAccess(MethodSkip)
	assert.True(t, s.HasAccess())
}

func TestMethod_IsValid(t *testing.T) {
	assert.True(t, MethodSubscribe.IsValid())
	assert.True(t, MethodSkip.IsValid())
	assert.False(t, Method("close").IsValid())
}
