package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("nba-trixie/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

const handlerSpanPrefix = "httpapi.Handler."

// routeParamAttrs maps mux path wildcards onto span attribute keys.
var routeParamAttrs = map[string]attribute.Key{
	"ticketID": "trixie.ticket_id",
	"eventID":  "odds.event_id",
	"date":     "nba.slate_date",
	"seed":     "trixie.seed",
}

// startSpan opens a handler span under the request span. Middleware and
// helper names get a no-op span, as do requests the tracing middleware
// skipped (health and metrics routes).
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	if !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// startRouteSpan is startSpan tagged with the matched route and its path
// values.
func startRouteSpan(r *http.Request, name string) (context.Context, trace.Span) {
	return startSpan(r.Context(), name, routeAttributes(r)...)
}

func routeAttributes(r *http.Request) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if r.Pattern != "" {
		attrs = append(attrs, attribute.String("http.route", r.Pattern))
	}
	for param, key := range routeParamAttrs {
		if value := strings.TrimSpace(r.PathValue(param)); value != "" {
			attrs = append(attrs, key.String(value))
		}
	}
	return attrs
}

// markSpanFailed records err on the span active in ctx.
func markSpanFailed(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix) && len(name) > len(handlerSpanPrefix)
}
