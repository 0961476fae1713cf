package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/nba-trixie/internal/domain/injury"
	"github.com/riskibarqy/nba-trixie/internal/domain/projection"
	"github.com/riskibarqy/nba-trixie/internal/usecase"
)

type refreshInjuriesRequest struct {
	Teams []string `json:"teams" validate:"omitempty,max=30,dive,required"`
}

type buildSlateRequest struct {
	Date  string                  `json:"date" validate:"required,datetime=2006-01-02"`
	Games []usecase.ScheduledGame `json:"games" validate:"required,min=1,dive"`
}

type injuriesResponse struct {
	injury.Report
	IsStale bool `json:"stale"`
	Blocked int  `json:"blocked"`
}

func (h *Handler) GetInjuries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.GetInjuries")
	defer span.End()

	report := h.injuryService.Load(ctx)
	writeSuccess(ctx, w, http.StatusOK, injuriesResponse{
		Report:  report,
		IsStale: h.injuryService.Stale(report),
		Blocked: report.BlockedCount(),
	})
}

func (h *Handler) RefreshInjuries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.RefreshInjuries")
	defer span.End()

	var req refreshInjuriesRequest
	if err := h.decodeRequest(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.injuryService.Refresh(ctx, req.Teams)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh injuries failed", "teams", len(req.Teams), "failed", len(summary.Failed), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) BuildSlate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.BuildSlate")
	defer span.End()

	var req buildSlateRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	games, err := h.slateService.BuildGames(ctx, req.Date, req.Games)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, games)
}

func (h *Handler) ListEventProps(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.ListEventProps")
	defer span.End()

	props, err := h.slateService.Props(ctx, strings.TrimSpace(r.PathValue("eventID")))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, props)
}

func (h *Handler) GetTables(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.GetTables")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.tablesService.Load(ctx))
}

func (h *Handler) SaveTables(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.SaveTables")
	defer span.End()

	var tables projection.Tables
	if err := h.decodeRequest(ctx, r, &tables, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.tablesService.Save(ctx, tables); err != nil {
		h.logger.WarnContext(ctx, "save tables failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.tablesService.Load(ctx))
}
