package session

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryEntry struct {
	data      Data
	expiresAt time.Time
}

// MemoryStore keeps sessions in a bounded, expiring LRU inside the process.
// Sessions do not survive a restart and are not shared between replicas.
type MemoryStore struct {
	cache *expirable.LRU[string, memoryEntry]
	now   func() time.Time
}

// NewMemoryStore creates a store holding at most size sessions. maxTTL caps
// the lifetime of every entry; Set may ask for a shorter one.
func NewMemoryStore(size int, maxTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: expirable.NewLRU[string, memoryEntry](size, nil, maxTTL),
		now:   time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Data, error) {
	entry, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		s.cache.Remove(id)
		return nil, ErrNotFound
	}
	data := entry.data
	return &data, nil
}

func (s *MemoryStore) Set(_ context.Context, id string, data *Data, ttl time.Duration) error {
	s.cache.Add(id, memoryEntry{data: *data, expiresAt: s.now().Add(ttl)})
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, id string) error {
	s.cache.Remove(id)
	return nil
}
