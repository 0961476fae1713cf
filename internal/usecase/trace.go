package usecase

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("nba-trixie/internal/usecase")
var usecaseNoopSpan = trace.SpanFromContext(context.Background())

const (
	attrSlateDate = attribute.Key("nba.slate_date")
	attrGameCount = attribute.Key("nba.game_count")
	attrTeamCount = attribute.Key("nba.team_count")
	attrEventID   = attribute.Key("odds.event_id")
	attrTicketID  = attribute.Key("trixie.ticket_id")
)

// startUsecaseSpan starts a child span only under an existing request or
// scheduler span.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// spanError marks span failed. Client mistakes leave the status unset.
func spanError(span trace.Span, err error) {
	if err == nil || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
