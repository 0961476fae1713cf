package fallback

import (
	"context"
	"fmt"

	"github.com/riskibarqy/nba-trixie/internal/domain/kvstore"
	"github.com/riskibarqy/nba-trixie/internal/platform/logging"
)

// Store reads cloud first, then the local tier, then reports a miss.
// Writes go to both tiers; only the cloud write can fail the call.
type Store struct {
	cloud  kvstore.Store
	local  kvstore.Store
	logger *logging.Logger
}

// New accepts a nil local tier, in which case Store is a pass-through.
func New(cloud, local kvstore.Store, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{cloud: cloud, local: local, logger: logger}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var cloudErr error
	if s.cloud != nil {
		raw, ok, err := s.cloud.Get(ctx, key)
		if err == nil && ok {
			return raw, true, nil
		}
		if err != nil {
			cloudErr = err
			s.logger.WarnContext(ctx, "cloud store read failed, trying local", "key", key, "error", err)
		}
	}

	if s.local == nil {
		if cloudErr != nil {
			return nil, false, cloudErr
		}
		return nil, false, nil
	}

	raw, ok, err := s.local.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "local store read failed", "key", key, "error", err)
		if cloudErr != nil {
			return nil, false, fmt.Errorf("read %s: cloud: %v; local: %w", key, cloudErr, err)
		}
		return nil, false, nil
	}
	return raw, ok, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	var cloudErr error
	if s.cloud != nil {
		cloudErr = s.cloud.Put(ctx, key, value)
	}
	if s.local != nil {
		if err := s.local.Put(ctx, key, value); err != nil {
			s.logger.WarnContext(ctx, "local store write failed", "key", key, "error", err)
		}
	}
	if cloudErr != nil {
		return fmt.Errorf("write %s: %w", key, cloudErr)
	}
	return nil
}
