package httpapi

import (
	"net/http"

	"github.com/riskibarqy/football-stats/internal/platform/logging"
)

// NewRouter builds the public handler. metrics may be nil to leave /metrics
// unrouted.
func NewRouter(handler *Handler, metrics http.Handler, logger *logging.Logger, corsAllowedOrigins []string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, metrics)
	registerQuestionRoutes(mux, handler)
	registerPlayerRoutes(mux, handler)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}
