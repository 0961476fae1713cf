package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/nba-trixie/internal/platform/logging"
)

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	observer RequestObserver,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerTrixieRoutes(mux, handler)
	registerAuditRoutes(mux, handler)
	registerReferenceRoutes(mux, handler)

	return RequestTracing(RequestLogging(logger, observer, CORS(corsAllowedOrigins, recoverPanic(logger, recordRoute(mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "http_path", r.URL.Path)
				markSpanFailed(ctx, fmt.Errorf("panic: %v", rec))
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// recordRoute copies the matched mux pattern onto the logging recorder so
// metrics are labelled by route instead of raw path.
func recordRoute(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r)
		if rec, ok := w.(*statusRecorder); ok {
			rec.route = r.Pattern
		}
	})
}
