package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	qb "github.com/riskibarqy/nba-trixie/internal/platform/querybuilder"
)

// KVStore keeps JSON blobs in a single upsert-by-key table.
type KVStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewKVStore(db *sqlx.DB) *KVStore {
	return &KVStore{db: db, now: time.Now}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := qb.Select("value").
		From(kvEntriesTable).
		Where(qb.Eq("key", key)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build select kv entry query: %w", err)
	}

	var value []byte
	if err := s.db.GetContext(ctx, &value, query, args...); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		if isUndefinedTable(err) {
			return nil, false, fmt.Errorf("select kv entry %s: table missing, run migrations: %w", key, err)
		}
		return nil, false, fmt.Errorf("select kv entry %s: %w", key, err)
	}
	return value, true, nil
}

func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	model := kvEntryTableModel{
		Key:       key,
		Value:     value,
		UpdatedAt: s.now().UTC(),
	}
	query, args, err := qb.InsertModel(kvEntriesTable, model, `ON CONFLICT (key)
DO UPDATE SET
    value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert kv entry query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert kv entry %s: %w", key, err)
	}
	return nil
}
