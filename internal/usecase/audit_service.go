package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/nba-trixie/internal/domain/audit"
	"github.com/riskibarqy/nba-trixie/internal/domain/kvstore"
	"github.com/riskibarqy/nba-trixie/internal/domain/prop"
	"github.com/riskibarqy/nba-trixie/internal/platform/logging"
)

type AuditServiceConfig struct {
	Capacity int
	Now      func() time.Time
}

// AuditService owns the persisted ticket log. Every operation reloads the log
// from the store, so the stored list is the source of truth.
type AuditService struct {
	store    kvstore.Store
	boxes    BoxScoreFeed
	metrics  MetricsRecorder
	logger   *logging.Logger
	capacity int
	now      func() time.Time

	mu sync.Mutex
}

// ValidationSummary counts the outcome of one ValidatePending run.
type ValidationSummary struct {
	Checked  int            `json:"checked"`
	Resolved int            `json:"resolved"`
	Pending  int            `json:"pending"`
	Errors   int            `json:"errors"`
	ByStatus map[string]int `json:"by_status"`
}

func NewAuditService(store kvstore.Store, boxes BoxScoreFeed, metrics MetricsRecorder, logger *logging.Logger, cfg AuditServiceConfig) *AuditService {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = audit.DefaultCapacity
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AuditService{
		store:    store,
		boxes:    boxes,
		metrics:  metrics,
		logger:   logger,
		capacity: cfg.Capacity,
		now:      cfg.Now,
	}
}

// Log stores t as a PENDING ticket. inserted is false when a ticket with the
// same content id already exists; the stored ticket is returned then.
func (s *AuditService) Log(ctx context.Context, t prop.Trixie, source string) (audit.Ticket, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuditService.Log", attrTicketID.String(t.ID))
	defer span.End()

	if len(t.Legs) == 0 {
		return audit.Ticket{}, false, fmt.Errorf("%w: trixie has no legs", ErrInvalidInput)
	}
	ticket, err := audit.NewTicket(t, strings.TrimSpace(source), s.now())
	if err != nil {
		return audit.Ticket{}, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.load(ctx)
	if err != nil {
		return audit.Ticket{}, false, err
	}
	if !log.Insert(ticket) {
		idx, _ := log.Find(ticket.ID)
		return log.Tickets[idx], false, nil
	}
	if err := s.save(ctx, log); err != nil {
		return audit.Ticket{}, false, err
	}

	s.metrics.TicketLogged()
	s.logger.InfoContext(ctx, "ticket logged", "ticket_id", ticket.ID, "category", ticket.Category, "total_odd", ticket.TotalOdd)
	return ticket, true, nil
}

// List returns up to limit tickets, newest first. limit <= 0 returns all.
func (s *AuditService) List(ctx context.Context, limit int) ([]audit.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	tickets := log.Tickets
	if limit > 0 && len(tickets) > limit {
		tickets = tickets[:limit]
	}
	return append([]audit.Ticket(nil), tickets...), nil
}

// Validate reconciles one ticket. Feed failures leave legs PENDING and are
// logged; the partially resolved ticket is still persisted.
func (s *AuditService) Validate(ctx context.Context, ticketID string) (audit.Ticket, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuditService.Validate", attrTicketID.String(ticketID))
	defer span.End()

	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return audit.Ticket{}, fmt.Errorf("%w: ticket id is required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.load(ctx)
	if err != nil {
		return audit.Ticket{}, err
	}
	idx, ok := log.Find(ticketID)
	if !ok {
		return audit.Ticket{}, fmt.Errorf("%w: ticket=%s", ErrNotFound, ticketID)
	}

	validator, err := s.validator()
	if err != nil {
		return audit.Ticket{}, err
	}
	updated := s.validateOne(ctx, validator, log.Tickets[idx])
	log.Replace(updated)
	if err := s.save(ctx, log); err != nil {
		return audit.Ticket{}, err
	}
	return updated, nil
}

// ValidatePending walks every PENDING ticket in order with one shared
// box-score cache for the run.
func (s *AuditService) ValidatePending(ctx context.Context) (ValidationSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuditService.ValidatePending")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.load(ctx)
	if err != nil {
		spanError(span, err)
		return ValidationSummary{}, err
	}
	if len(log.Pending()) == 0 {
		return ValidationSummary{ByStatus: make(map[string]int)}, nil
	}
	validator, err := s.validator()
	if err != nil {
		return ValidationSummary{}, err
	}

	start := s.now()
	summary := ValidationSummary{ByStatus: make(map[string]int)}
	for _, ticketID := range log.Pending() {
		if err := ctx.Err(); err != nil {
			break
		}
		idx, _ := log.Find(ticketID)
		before := log.Tickets[idx]
		updated, err := validator.Validate(ctx, before)
		if err != nil {
			summary.Errors++
			s.logger.WarnContext(ctx, "ticket validation incomplete", "ticket_id", ticketID, "error", err)
		}
		summary.Checked++
		if updated.Status == audit.StatusPending {
			summary.Pending++
		} else {
			summary.Resolved++
			s.metrics.TicketValidated(string(updated.Status))
		}
		summary.ByStatus[string(updated.Status)]++
		log.Replace(updated)
	}
	s.metrics.ObservePipeline("validate_pending", s.now().Sub(start))

	if summary.Checked == 0 {
		return summary, nil
	}
	if err := s.save(ctx, log); err != nil {
		return summary, err
	}
	s.logger.InfoContext(ctx, "pending tickets validated",
		"checked", summary.Checked,
		"resolved", summary.Resolved,
		"errors", summary.Errors,
	)
	return summary, ctx.Err()
}

// Void settles a PENDING ticket as VOID.
func (s *AuditService) Void(ctx context.Context, ticketID string) (audit.Ticket, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuditService.Void", attrTicketID.String(ticketID))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.load(ctx)
	if err != nil {
		return audit.Ticket{}, err
	}
	idx, ok := log.Find(strings.TrimSpace(ticketID))
	if !ok {
		return audit.Ticket{}, fmt.Errorf("%w: ticket=%s", ErrNotFound, ticketID)
	}

	ticket := log.Tickets[idx]
	if err := ticket.Transition(audit.StatusVoid, s.now()); err != nil {
		return audit.Ticket{}, fmt.Errorf("void ticket=%s: %w", ticket.ID, err)
	}
	log.Replace(ticket)
	if err := s.save(ctx, log); err != nil {
		return audit.Ticket{}, err
	}
	s.metrics.TicketValidated(string(audit.StatusVoid))
	return ticket, nil
}

func (s *AuditService) validateOne(ctx context.Context, v *audit.Validator, t audit.Ticket) audit.Ticket {
	updated, err := v.Validate(ctx, t)
	if err != nil {
		s.logger.WarnContext(ctx, "ticket validation incomplete", "ticket_id", t.ID, "error", err)
	}
	if updated.Status != t.Status {
		s.metrics.TicketValidated(string(updated.Status))
	}
	return updated
}

func (s *AuditService) validator() (*audit.Validator, error) {
	if s.boxes == nil {
		return nil, fmt.Errorf("%w: box score feed is not configured", ErrDependencyUnavailable)
	}
	return audit.NewValidator(s.boxes.FetchGameSummary, s.now), nil
}

// load returns an empty log for a missing or undecodable blob. A store read
// error aborts the operation so a transient outage never overwrites history.
func (s *AuditService) load(ctx context.Context) (*audit.Log, error) {
	raw, ok, err := s.store.Get(ctx, kvstore.KeyAuditTickets)
	if err != nil {
		return nil, fmt.Errorf("%w: load audit log: %v", ErrDependencyUnavailable, err)
	}

	var tickets []audit.Ticket
	if ok && len(raw) > 0 {
		if err := sonic.Unmarshal(raw, &tickets); err != nil {
			s.logger.WarnContext(ctx, "audit log undecodable, starting empty", "error", err)
			tickets = nil
		}
	}
	return audit.NewLog(tickets, s.capacity), nil
}

func (s *AuditService) save(ctx context.Context, log *audit.Log) error {
	if err := kvstore.PutJSON(ctx, s.store, kvstore.KeyAuditTickets, log.Tickets); err != nil {
		return fmt.Errorf("persist audit log: %w", err)
	}
	return nil
}
