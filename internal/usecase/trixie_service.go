package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/nba-trixie/internal/domain/composer"
	"github.com/riskibarqy/nba-trixie/internal/domain/game"
	"github.com/riskibarqy/nba-trixie/internal/domain/kvstore"
	"github.com/riskibarqy/nba-trixie/internal/domain/montecarlo"
	"github.com/riskibarqy/nba-trixie/internal/domain/player"
	"github.com/riskibarqy/nba-trixie/internal/domain/prop"
	"github.com/riskibarqy/nba-trixie/internal/platform/id"
	"github.com/riskibarqy/nba-trixie/internal/platform/logging"
)

type TrixieServiceConfig struct {
	MaxCombinations int
	MinMinutes      float64
	Samples         int
	// LinesTTL bounds how long stored player lines are reused; zero keeps them.
	LinesTTL time.Duration
	Now      func() time.Time
}

type TrixieService struct {
	injuries *InjuryService
	tables   *TablesService
	store    kvstore.Store
	ids      id.Generator
	sim      *montecarlo.Simulator
	metrics  MetricsRecorder
	logger   *logging.Logger
	cfg      TrixieServiceConfig
}

type GenerateInput struct {
	Date            string
	Games           []game.Context
	Lines           []player.Line
	Profiles        []prop.RiskProfile
	MaxCombinations int
}

type GenerateOutput struct {
	RunID   string         `json:"run_id"`
	Date    string         `json:"date"`
	Seed    uint32         `json:"seed"`
	Trixies []prop.Trixie  `json:"trixies"`
	Blocked []string       `json:"blocked"`
	Players int            `json:"players"`
	Stale   bool           `json:"injuries_stale"`
	Games   []game.Context `json:"games"`
}

type storedLines struct {
	StoredAt time.Time     `json:"stored_at"`
	Lines    []player.Line `json:"lines"`
}

func NewTrixieService(
	injuries *InjuryService,
	tables *TablesService,
	store kvstore.Store,
	ids id.Generator,
	metrics MetricsRecorder,
	logger *logging.Logger,
	cfg TrixieServiceConfig,
) *TrixieService {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &TrixieService{
		injuries: injuries,
		tables:   tables,
		store:    store,
		ids:      ids,
		sim:      montecarlo.NewSimulator(cfg.Samples),
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate runs projection, composition and pricing for one slate. Lines may
// be omitted when a previous call stored them for the same date.
func (s *TrixieService) Generate(ctx context.Context, in GenerateInput) (GenerateOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrixieService.Generate",
		attrSlateDate.String(in.Date),
		attrGameCount.Int(len(in.Games)),
	)
	defer span.End()

	start := s.cfg.Now()
	date := strings.TrimSpace(in.Date)
	if _, err := time.Parse(dateLayout, date); err != nil {
		return GenerateOutput{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if len(in.Games) == 0 {
		return GenerateOutput{}, fmt.Errorf("%w: at least one game is required", ErrInvalidInput)
	}

	lines, err := s.resolveLines(ctx, date, in.Lines)
	if err != nil {
		return GenerateOutput{}, err
	}

	profiles := in.Profiles
	if len(profiles) == 0 {
		profiles = prop.Profiles()
	}
	maxCombinations := in.MaxCombinations
	if maxCombinations <= 0 {
		maxCombinations = s.cfg.MaxCombinations
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return GenerateOutput{}, fmt.Errorf("generate run id: %w", err)
	}
	logger := s.logger.With("run_id", runID, "date", date)

	report := s.injuries.Load(ctx)
	kernel := s.tables.Load(ctx).Kernel(report)
	projected := kernel.Project(in.Games, lines)
	s.metrics.ObservePipeline("projection", s.cfg.Now().Sub(start))
	if len(projected.Players) == 0 {
		return GenerateOutput{}, fmt.Errorf("%w: no player could be projected for %s", ErrNoRecommendations, date)
	}

	gameIDs := make([]string, 0, len(in.Games))
	for _, g := range in.Games {
		gameIDs = append(gameIDs, g.GameID)
	}
	seed := composer.Seed(gameIDs, date)

	comp := composer.New(composer.Config{MaxCombinations: maxCombinations, MinMinutes: s.cfg.MinMinutes})
	trixies, err := comp.ComposeAll(composer.Input{Date: date, GameIDs: gameIDs, Players: projected.Players}, profiles)
	if err != nil {
		return GenerateOutput{}, fmt.Errorf("compose trixies: %w", err)
	}
	if len(trixies) == 0 {
		logger.WarnContext(ctx, "no valid trixie for slate", "players", len(projected.Players), "games", len(in.Games))
		return GenerateOutput{}, fmt.Errorf("%w: no valid trixie for %s", ErrNoRecommendations, date)
	}

	perProfile := make(map[prop.RiskProfile]int, len(profiles))
	for i := range trixies {
		trixies[i].Legs = s.sim.PriceLegs(trixies[i].Legs)
		perProfile[trixies[i].Category]++
		for _, leg := range trixies[i].Legs {
			s.metrics.LegBuilt(string(leg.Market), string(leg.Tier))
		}
	}
	for profile, count := range perProfile {
		s.metrics.TrixiesGenerated(string(profile), count)
	}

	out := GenerateOutput{
		RunID:   runID,
		Date:    date,
		Seed:    seed,
		Trixies: trixies,
		Blocked: projected.Blocked,
		Players: len(projected.Players),
		Stale:   s.injuries.Stale(report),
		Games:   in.Games,
	}
	if err := kvstore.PutJSON(ctx, s.store, kvstore.TrixiesKey(date, seed), out); err != nil {
		logger.WarnContext(ctx, "cache trixies failed", "seed", seed, "error", err)
	}

	s.metrics.ObservePipeline("generate", s.cfg.Now().Sub(start))
	logger.InfoContext(ctx, "trixies generated",
		"seed", seed,
		"trixies", len(trixies),
		"players", len(projected.Players),
		"blocked", len(projected.Blocked),
	)
	return out, nil
}

// Cached returns a previously generated run by date and seed.
func (s *TrixieService) Cached(ctx context.Context, date string, seed uint32) (GenerateOutput, error) {
	var out GenerateOutput
	ok, err := kvstore.GetJSON(ctx, s.store, kvstore.TrixiesKey(date, seed), &out)
	if err != nil {
		return GenerateOutput{}, fmt.Errorf("load cached trixies: %w", err)
	}
	if !ok {
		return GenerateOutput{}, fmt.Errorf("%w: no trixies cached for %s seed %d", ErrNotFound, date, seed)
	}
	return out, nil
}

func (s *TrixieService) resolveLines(ctx context.Context, date string, lines []player.Line) ([]player.Line, error) {
	if len(lines) == 0 {
		var stored storedLines
		ok, err := kvstore.GetJSON(ctx, s.store, kvstore.PlayerLinesKey(date), &stored)
		if err != nil {
			return nil, fmt.Errorf("load player lines: %w", err)
		}
		expired := s.cfg.LinesTTL > 0 && s.cfg.Now().Sub(stored.StoredAt) > s.cfg.LinesTTL
		if !ok || len(stored.Lines) == 0 || expired {
			return nil, fmt.Errorf("%w: player lines are required for %s", ErrInvalidInput, date)
		}
		return stored.Lines, nil
	}

	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if err := kvstore.PutJSON(ctx, s.store, kvstore.PlayerLinesKey(date), storedLines{StoredAt: s.cfg.Now(), Lines: lines}); err != nil {
		s.logger.WarnContext(ctx, "store player lines failed", "date", date, "error", err)
	}
	return lines, nil
}
