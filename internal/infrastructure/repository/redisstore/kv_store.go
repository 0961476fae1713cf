package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "trixie:"

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	// TTL of zero keeps entries until overwritten.
	TTL time.Duration
}

// KVStore is the cloud tier of the blob store.
type KVStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// New connects and pings once so a bad address fails at startup.
func New(ctx context.Context, opts Options) (*KVStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", opts.Addr, err)
	}

	return NewWithClient(client, opts.Prefix, opts.TTL), nil
}

func NewWithClient(client redis.UniversalClient, prefix string, ttl time.Duration) *KVStore {
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultPrefix
	}
	return &KVStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, true, nil
}

func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Close() error {
	return s.client.Close()
}

func (s *KVStore) key(key string) string {
	return s.prefix + key
}
