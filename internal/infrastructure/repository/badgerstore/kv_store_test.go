package badgerstore

import (
	"context"
	"testing"
)

func TestKVStore_InMemoryRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	if _, ok, err := store.Get(ctx, "injuries"); err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}

	if err := store.Put(ctx, "injuries", []byte(`{"teams":{}}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, "injuries", []byte(`{"teams":{"LAL":[]}}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, ok, err := store.Get(ctx, "injuries")
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if string(got) != `{"teams":{"LAL":[]}}` {
		t.Fatalf("unexpected value: %s", got)
	}
}

func TestKVStore_CanceledContext(t *testing.T) {
	t.Parallel()

	store, err := Open("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Put(ctx, "k", []byte("v")); err == nil {
		t.Fatalf("expected canceled context error")
	}
}
