package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/nba-trixie/internal/domain/market"
	"github.com/riskibarqy/nba-trixie/internal/domain/player"
	"github.com/riskibarqy/nba-trixie/internal/domain/prop"
	"github.com/riskibarqy/nba-trixie/internal/usecase"
)

type generateTrixiesRequest struct {
	Date            string                  `json:"date" validate:"required,datetime=2006-01-02"`
	Games           []usecase.ScheduledGame `json:"games" validate:"required,min=1,dive"`
	Lines           []map[string]any        `json:"lines" validate:"omitempty,dive,required"`
	Profiles        []string                `json:"profiles" validate:"omitempty,max=3,dive,required"`
	MaxCombinations int                     `json:"max_combinations" validate:"omitempty,min=1,max=200"`
	LogSource       string                  `json:"log_source" validate:"omitempty,max=64"`
}

type generateTrixiesResponse struct {
	usecase.GenerateOutput
	Logged []string `json:"logged_ticket_ids,omitempty"`
}

type quoteRequest struct {
	Market        string  `json:"market" validate:"required"`
	Mean          float64 `json:"mean" validate:"gte=0"`
	Line          float64 `json:"line" validate:"gte=0"`
	CV            float64 `json:"cv" validate:"gte=0,lte=2"`
	OfferedOdds   float64 `json:"offered_odds" validate:"omitempty,gt=1"`
	KellyFraction float64 `json:"kelly_fraction" validate:"omitempty,gt=0,lte=1"`
}

func (h *Handler) GenerateTrixies(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.GenerateTrixies")
	defer span.End()

	var req generateTrixiesRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	profiles := make([]prop.RiskProfile, 0, len(req.Profiles))
	for _, raw := range req.Profiles {
		profile, err := prop.ParseRiskProfile(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
			return
		}
		profiles = append(profiles, profile)
	}

	games, err := h.slateService.BuildGames(ctx, req.Date, req.Games)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	lines := make([]player.Line, 0, len(req.Lines))
	for _, rec := range req.Lines {
		lines = append(lines, player.FromRecord(rec))
	}

	out, err := h.trixieService.Generate(ctx, usecase.GenerateInput{
		Date:            req.Date,
		Games:           games,
		Lines:           lines,
		Profiles:        profiles,
		MaxCombinations: req.MaxCombinations,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "generate trixies failed", "date", req.Date, "games", len(games), "error", err)
		writeError(ctx, w, err)
		return
	}

	resp := generateTrixiesResponse{GenerateOutput: out}
	if source := strings.TrimSpace(req.LogSource); source != "" {
		for _, trixie := range out.Trixies {
			ticket, inserted, err := h.auditService.Log(ctx, trixie, source)
			if err != nil {
				h.logger.WarnContext(ctx, "log generated trixie failed", "trixie_id", trixie.ID, "error", err)
				continue
			}
			if inserted {
				resp.Logged = append(resp.Logged, ticket.ID)
			}
		}
	}

	writeSuccess(ctx, w, http.StatusOK, resp)
}

func (h *Handler) GetCachedTrixies(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.GetCachedTrixies")
	defer span.End()

	date := strings.TrimSpace(r.PathValue("date"))
	seed, err := strconv.ParseUint(strings.TrimSpace(r.PathValue("seed")), 10, 32)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: seed must be an unsigned 32-bit integer", usecase.ErrInvalidInput))
		return
	}

	out, err := h.trixieService.Cached(ctx, date, uint32(seed))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) QuoteLeg(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.QuoteLeg")
	defer span.End()

	var req quoteRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	m, ok := market.Parse(req.Market)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown market %q", usecase.ErrInvalidInput, req.Market))
		return
	}

	quote, err := h.pricingService.Quote(ctx, usecase.QuoteInput{
		Market:        m,
		Mean:          req.Mean,
		Line:          req.Line,
		CV:            req.CV,
		OfferedOdds:   req.OfferedOdds,
		KellyFraction: req.KellyFraction,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, quote)
}
