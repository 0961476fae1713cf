package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/nba-trixie/internal/domain/audit"
	"github.com/riskibarqy/nba-trixie/internal/domain/composer"
	"github.com/riskibarqy/nba-trixie/internal/domain/prop"
	"github.com/riskibarqy/nba-trixie/internal/usecase"
)

type logTicketRequest struct {
	Trixie prop.Trixie `json:"trixie"`
	Source string      `json:"source" validate:"omitempty,max=64"`
	// Strict re-checks the diversity and risk-mix rules of the trixie's category.
	Strict bool `json:"strict"`
}

type logTicketResponse struct {
	Ticket   audit.Ticket `json:"ticket"`
	Inserted bool         `json:"inserted"`
}

func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.ListTickets")
	defer span.End()

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	status := audit.Status(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))
	tickets, err := h.auditService.List(ctx, 0)
	if err != nil {
		h.logger.ErrorContext(ctx, "list tickets failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]audit.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if status != "" && ticket.Status != status {
			continue
		}
		items = append(items, ticket)
		if limit > 0 && len(items) == limit {
			break
		}
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) LogTicket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.LogTicket")
	defer span.End()

	var req logTicketRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.Strict {
		profile, err := prop.ParseRiskProfile(string(req.Trixie.Category))
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
			return
		}
		if err := composer.Validate(req.Trixie.Legs, profile); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	source := req.Source
	if strings.TrimSpace(source) == "" {
		source = "api"
	}
	ticket, inserted, err := h.auditService.Log(ctx, req.Trixie, source)
	if err != nil {
		h.logger.WarnContext(ctx, "log ticket failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, logTicketResponse{Ticket: ticket, Inserted: inserted})
}

func (h *Handler) ValidateTicket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.ValidateTicket")
	defer span.End()

	ticketID := strings.TrimSpace(r.PathValue("ticketID"))
	ticket, err := h.auditService.Validate(ctx, ticketID)
	if err != nil {
		h.logger.WarnContext(ctx, "validate ticket failed", "ticket_id", ticketID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ticket)
}

func (h *Handler) VoidTicket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.VoidTicket")
	defer span.End()

	ticketID := strings.TrimSpace(r.PathValue("ticketID"))
	ticket, err := h.auditService.Void(ctx, ticketID)
	if err != nil {
		h.logger.WarnContext(ctx, "void ticket failed", "ticket_id", ticketID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ticket)
}

func (h *Handler) ValidatePendingTickets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRouteSpan(r, "httpapi.Handler.ValidatePendingTickets")
	defer span.End()

	summary, err := h.auditService.ValidatePending(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "validate pending tickets failed", "checked", summary.Checked, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}
