package kvstore

import (
	"context"
	"fmt"
	"strconv"

	sonic "github.com/bytedance/sonic"
)

const (
	KeyInjuries     = "injuries"
	KeyAuditTickets = "audit_trixies"
	KeyTeamAdvanced = "team_advanced"
)

// PlayerLinesKey caches the day's player lines.
func PlayerLinesKey(date string) string {
	return "player_lines:" + date
}

// TrixiesKey caches one generation result by date and composer seed.
func TrixiesKey(date string, seed uint32) string {
	return "trixies:" + date + ":" + strconv.FormatUint(uint64(seed), 10)
}

// Store is an upsert-by-key blob store. A missing key is (nil, false, nil).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// GetJSON decodes the blob under key into out.
func GetJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok || len(raw) == 0 {
		return false, nil
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// PutJSON encodes value and upserts it under key.
func PutJSON(ctx context.Context, s Store, key string, value any) error {
	raw, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Put(ctx, key, raw)
}
