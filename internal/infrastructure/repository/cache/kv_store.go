package cache

import (
	"context"

	"github.com/riskibarqy/nba-trixie/internal/domain/kvstore"
	basecache "github.com/riskibarqy/nba-trixie/internal/platform/cache"
)

const keyPrefix = "kv:"

// KVStore is a read-through decorator. Misses are cached too so a cold key
// does not hit the backend on every read within the ttl.
type KVStore struct {
	next  kvstore.Store
	cache *basecache.Store
}

func NewKVStore(next kvstore.Store, cache *basecache.Store) *KVStore {
	return &KVStore{next: next, cache: cache}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.cache.GetOrLoad(ctx, keyPrefix+key, func(ctx context.Context) (any, error) {
		raw, exists, err := s.next.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		return cachedBlob{value: append([]byte(nil), raw...), exists: exists}, nil
	})
	if err != nil {
		return nil, false, err
	}

	cached, _ := v.(cachedBlob)
	if !cached.exists {
		return nil, false, nil
	}
	return append([]byte(nil), cached.value...), true, nil
}

func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.next.Put(ctx, key, value); err != nil {
		s.cache.Delete(ctx, keyPrefix+key)
		return err
	}
	s.cache.Set(ctx, keyPrefix+key, cachedBlob{value: append([]byte(nil), value...), exists: true})
	return nil
}

type cachedBlob struct {
	value  []byte
	exists bool
}
