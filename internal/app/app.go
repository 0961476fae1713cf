package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/nba-trixie/external/espn"
	"github.com/riskibarqy/nba-trixie/external/oddsfeed"
	"github.com/riskibarqy/nba-trixie/internal/config"
	"github.com/riskibarqy/nba-trixie/internal/interfaces/httpapi"
	"github.com/riskibarqy/nba-trixie/internal/observability"
	idgen "github.com/riskibarqy/nba-trixie/internal/platform/id"
	"github.com/riskibarqy/nba-trixie/internal/platform/logging"
	"github.com/riskibarqy/nba-trixie/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// App holds the HTTP server and the resources that outlive a request.
type App struct {
	Server    *http.Server
	Scheduler *Scheduler
	closers   []closeFunc
	logger    *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	tables, err := config.LoadTables(cfg.TablesFile)
	if err != nil {
		return nil, err
	}

	store, closers, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var (
		recorder       usecase.MetricsRecorder = usecase.NoopMetrics{}
		observer       httpapi.RequestObserver
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		metrics := observability.NewMetrics()
		recorder, observer, metricsHandler = metrics, metrics, metrics.Handler()
	}

	espnClient := espn.NewClient(espn.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.ESPNTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:        cfg.ESPNBaseURL,
		Timeout:        cfg.ESPNTimeout,
		RequestDelay:   cfg.ESPNRequestDelay,
		MaxRetries:     cfg.ESPNMaxRetries,
		Logger:         logger.Named("espn"),
		CircuitBreaker: cfg.ESPNCircuit,
	})

	var odds usecase.OddsFeed
	if cfg.OddsEnabled {
		odds = oddsfeed.NewClient(oddsfeed.ClientConfig{
			BaseURL:        cfg.OddsBaseURL,
			APIKey:         cfg.OddsAPIKey,
			Timeout:        cfg.OddsTimeout,
			RequestDelay:   cfg.OddsRequestDelay,
			Logger:         logger.Named("oddsfeed"),
			CircuitBreaker: cfg.OddsCircuit,
		})
	}

	injurySvc := usecase.NewInjuryService(espnClient, store, recorder, logger.Named("injury"), usecase.InjuryServiceConfig{TTL: cfg.InjuryTTL})
	tablesSvc := usecase.NewTablesService(store, tables, logger.Named("tables"))
	slateSvc := usecase.NewSlateService(odds, logger.Named("slate"))
	trixieSvc := usecase.NewTrixieService(injurySvc, tablesSvc, store, idgen.NewUUIDGenerator(), recorder, logger.Named("trixie"), usecase.TrixieServiceConfig{
		MaxCombinations: cfg.ComposerMaxCombinations,
		Samples:         cfg.MonteCarloSamples,
		LinesTTL:        cfg.LineupTTL,
	})
	auditSvc := usecase.NewAuditService(store, espnClient, recorder, logger.Named("audit"), usecase.AuditServiceConfig{Capacity: cfg.AuditCapacity})
	pricingSvc := usecase.NewPricingService(cfg.MonteCarloSamples)

	handler := httpapi.NewHandler(httpapi.Services{
		Trixie:         trixieSvc,
		Slate:          slateSvc,
		Audit:          auditSvc,
		Injury:         injurySvc,
		Tables:         tablesSvc,
		Pricing:        pricingSvc,
		MetricsHandler: metricsHandler,
	}, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, observer)

	app := &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		closers: closers,
		logger:  logger,
	}

	if cfg.SchedulerEnabled {
		scheduler := NewScheduler(injurySvc, auditSvc, logger)
		if err := scheduler.Register(cfg.InjuryRefreshCron, cfg.AuditValidateCron); err != nil {
			_ = app.Close(ctx)
			return nil, fmt.Errorf("register scheduled jobs: %w", err)
		}
		app.Scheduler = scheduler
	}

	return app, nil
}

// Close stops the scheduler and releases stores in reverse open order.
func (a *App) Close(ctx context.Context) error {
	if a.Scheduler != nil {
		a.Scheduler.Stop(ctx)
	}

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		a.logger.Error("close app resources failed", "error", err)
		return err
	}
	return nil
}
