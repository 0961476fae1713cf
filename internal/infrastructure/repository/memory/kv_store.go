package memory

import (
	"context"
	"sync"
)

// KVStore keeps blobs in process memory.
type KVStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewKVStore(seed map[string][]byte) *KVStore {
	items := make(map[string][]byte, len(seed))
	for k, v := range seed {
		items[k] = append([]byte(nil), v...)
	}

	return &KVStore{items: items}
}

func (s *KVStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}

	return append([]byte(nil), v...), true, nil
}

func (s *KVStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = append([]byte(nil), value...)
	return nil
}
