package memory

import (
	"context"
	"healnexus-service/internal/app/contracts"
	"healnexus-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// KeyValueStore is an in-process stand-in for Redis. Values are JSON encoded
// the same way the Redis repository encodes them.
type KeyValueStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

var _ contracts.RedisRepository = (*KeyValueStore)(nil)

func (s *KeyValueStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *KeyValueStore) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	encoded, err := encode(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = s.newEntry(encoded, exp)
	return nil
}

func (s *KeyValueStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.live(key)
	if !ok {
		return "", nil
	}
	return current.value, nil
}

func (s *KeyValueStore) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	encoded, err := encode(value)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live(key); ok {
		return false, nil
	}
	s.entries[key] = s.newEntry(encoded, exp)
	return true, nil
}

func (s *KeyValueStore) CompareAndDelete(ctx context.Context, key string, value interface{}) (bool, error) {
	encoded, err := encode(value)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.live(key)
	if !ok || current.value != encoded {
		return false, nil
	}
	delete(s.entries, key)
	return true, nil
}

func (s *KeyValueStore) CompareAndExpire(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	encoded, err := encode(value)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.live(key)
	if !ok || current.value != encoded {
		return false, nil
	}
	s.entries[key] = s.newEntry(current.value, exp)
	return true, nil
}

// live must be called with mu held.
func (s *KeyValueStore) live(key string) (entry, bool) {
	current, ok := s.entries[key]
	if !ok {
		return entry{}, false
	}
	if current.expired(s.now()) {
		delete(s.entries, key)
		return entry{}, false
	}
	return current, true
}

func (s *KeyValueStore) newEntry(value string, exp time.Duration) entry {
	e := entry{value: value}
	if exp > 0 {
		e.expiresAt = s.now().Add(exp)
	}
	return e
}

func encode(value interface{}) (string, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", exceptions.ErrCannotMarshalJSON(err)
	}
	return string(encoded), nil
}
