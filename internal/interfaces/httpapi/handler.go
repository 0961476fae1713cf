package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/nba-trixie/internal/platform/logging"
	"github.com/riskibarqy/nba-trixie/internal/usecase"
)

const maxRequestBody = 4 << 20

type Handler struct {
	trixieService  *usecase.TrixieService
	slateService   *usecase.SlateService
	auditService   *usecase.AuditService
	injuryService  *usecase.InjuryService
	tablesService  *usecase.TablesService
	pricingService *usecase.PricingService
	metricsHandler http.Handler
	logger         *logging.Logger
	validator      *validator.Validate
}

// Services groups the use cases the API exposes. A nil MetricsHandler leaves
// GET /metrics unregistered.
type Services struct {
	Trixie         *usecase.TrixieService
	Slate          *usecase.SlateService
	Audit          *usecase.AuditService
	Injury         *usecase.InjuryService
	Tables         *usecase.TablesService
	Pricing        *usecase.PricingService
	MetricsHandler http.Handler
}

func NewHandler(services Services, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		trixieService:  services.Trixie,
		slateService:   services.Slate,
		auditService:   services.Audit,
		injuryService:  services.Injury,
		tablesService:  services.Tables,
		pricingService: services.Pricing,
		metricsHandler: services.MetricsHandler,
		logger:         logger.Named("httpapi"),
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeRequest reads a JSON body into target and validates it. An empty
// body is accepted only when optional is set; target keeps its zero value.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, target any, optional bool) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		if optional {
			return h.validateRequest(ctx, target)
		}
		return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
	}

	decoder := sonic.ConfigDefault.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, target)
}
