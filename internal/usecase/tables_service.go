package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/nba-trixie/internal/domain/kvstore"
	"github.com/riskibarqy/nba-trixie/internal/domain/projection"
	"github.com/riskibarqy/nba-trixie/internal/platform/logging"
)

// TablesService resolves the reference tables: built-in defaults, then the
// configured file tables, then the persisted team_advanced blob.
type TablesService struct {
	store  kvstore.Store
	base   projection.Tables
	logger *logging.Logger
}

func NewTablesService(store kvstore.Store, base projection.Tables, logger *logging.Logger) *TablesService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TablesService{store: store, base: base, logger: logger}
}

func (s *TablesService) Load(ctx context.Context) projection.Tables {
	var persisted projection.Tables
	ok, err := kvstore.GetJSON(ctx, s.store, kvstore.KeyTeamAdvanced, &persisted)
	if err != nil {
		s.logger.WarnContext(ctx, "load team_advanced failed, using base tables", "error", err)
		return s.base
	}
	if !ok || persisted.Empty() {
		return s.base
	}
	return s.base.Overlay(persisted)
}

func (s *TablesService) Save(ctx context.Context, tables projection.Tables) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TablesService.Save")
	defer span.End()

	for code, v := range tables.Pace {
		if v <= 0 {
			return fmt.Errorf("%w: pace for %s must be > 0", ErrInvalidInput, code)
		}
	}
	if tables.LeagueAveragePace < 0 {
		return fmt.Errorf("%w: league average pace must be >= 0", ErrInvalidInput)
	}
	if err := kvstore.PutJSON(ctx, s.store, kvstore.KeyTeamAdvanced, tables); err != nil {
		return fmt.Errorf("persist team_advanced: %w", err)
	}
	return nil
}
