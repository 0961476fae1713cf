package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/nba-trixie/internal/config"
	"github.com/riskibarqy/nba-trixie/internal/domain/kvstore"
	"github.com/riskibarqy/nba-trixie/internal/infrastructure/repository/badgerstore"
	cachedstore "github.com/riskibarqy/nba-trixie/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/nba-trixie/internal/infrastructure/repository/fallback"
	"github.com/riskibarqy/nba-trixie/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/nba-trixie/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/nba-trixie/internal/infrastructure/repository/redisstore"
	basecache "github.com/riskibarqy/nba-trixie/internal/platform/cache"
	"github.com/riskibarqy/nba-trixie/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

type closeFunc func() error

// buildStore assembles the blob store: the configured cloud backend, the
// optional badger fallback tier and the optional read-through cache.
func buildStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (kvstore.Store, []closeFunc, error) {
	var closers []closeFunc
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	var cloud kvstore.Store
	switch cfg.KVBackend {
	case config.KVBackendPostgres:
		db, err := openPostgres(cfg)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, db.Close)
		cloud = postgres.NewKVStore(db)
	case config.KVBackendRedis:
		rs, err := redisstore.New(ctx, redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis store: %w", err)
		}
		closers = append(closers, rs.Close)
		cloud = rs
	default:
		cloud = memory.NewKVStore(nil)
	}

	store := cloud
	if dir := strings.TrimSpace(cfg.LocalStoreDir); dir != "" {
		local, err := badgerstore.Open(dir)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open local store: %w", err)
		}
		closers = append(closers, local.Close)
		store = fallback.New(cloud, local, logger.Named("kvstore"))
	}

	if cfg.CacheEnabled {
		store = cachedstore.NewKVStore(store, basecache.NewStore(cfg.CacheTTL))
	}

	logger.Info("kv store ready",
		"backend", cfg.KVBackend,
		"local_fallback", cfg.LocalStoreDir != "",
		"cache_enabled", cfg.CacheEnabled,
	)
	return store, closers, nil
}

func openPostgres(cfg config.Config) (*sqlx.DB, error) {
	dbURL, dbName := postgresDSN(cfg.DBURL, cfg.ServiceName, cfg.DBDisablePreparedBinary)
	opts := []otelsql.Option{
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if dbName != "" {
		opts = append(opts, otelsql.WithDBName(dbName))
	}

	db, err := otelsqlx.Open("postgres", dbURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return db, nil
}
