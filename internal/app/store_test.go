package app

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/nba-trixie/internal/config"
	"github.com/riskibarqy/nba-trixie/internal/domain/kvstore"
	"github.com/riskibarqy/nba-trixie/internal/infrastructure/repository/badgerstore"
	"github.com/riskibarqy/nba-trixie/internal/platform/logging"
)

func TestBuildStore_MemoryWithLocalTierAndCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	cfg := config.Config{
		KVBackend:     config.KVBackendMemory,
		LocalStoreDir: dir,
		CacheEnabled:  true,
		CacheTTL:      time.Minute,
	}

	store, closers, err := buildStore(ctx, cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("buildStore: %v", err)
	}
	if len(closers) != 1 {
		t.Fatalf("expected one closer for the badger tier, got %d", len(closers))
	}

	if err := kvstore.PutJSON(ctx, store, kvstore.KeyInjuries, map[string]string{"BOS": "ok"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	var got map[string]string
	ok, err := kvstore.GetJSON(ctx, store, kvstore.KeyInjuries, &got)
	if err != nil || !ok || got["BOS"] != "ok" {
		t.Fatalf("get ok=%v err=%v got=%v", ok, err, got)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}

	// Writes reach the local tier, so a fresh process can read them back.
	local, err := badgerstore.Open(dir)
	if err != nil {
		t.Fatalf("reopen local store: %v", err)
	}
	defer local.Close()
	if _, ok, err := local.Get(ctx, kvstore.KeyInjuries); err != nil || !ok {
		t.Fatalf("expected blob in local tier, ok=%v err=%v", ok, err)
	}
}

func TestBuildStore_PlainMemory(t *testing.T) {
	t.Parallel()

	store, closers, err := buildStore(context.Background(), config.Config{KVBackend: config.KVBackendMemory}, logging.NewNop())
	if err != nil {
		t.Fatalf("buildStore: %v", err)
	}
	if len(closers) != 0 {
		t.Fatalf("expected no closers, got %d", len(closers))
	}
	if _, ok, err := store.Get(context.Background(), kvstore.KeyAuditTickets); err != nil || ok {
		t.Fatalf("expected empty store, ok=%v err=%v", ok, err)
	}
}
