package http

import (
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"articles-api/internal/handler/http/requestid"
)

// CORS returns middleware answering preflight requests for the given origins.
// An empty list disables cross-origin access; "*" allows any origin without credentials.
func CORS(origins []string, logger *slog.Logger) func(http.Handler) http.Handler {
	// cors.Options treats an empty list as "*"
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	allowAll := false
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept", requestid.RequestIDHeader},
		ExposedHeaders:   []string{requestid.RequestIDHeader, "X-Trace-Id"},
		AllowCredentials: !allowAll,
		MaxAge:           86400,
	})

	if logger != nil {
		logger.Info("CORS enabled",
			slog.Int("allowed_origins_count", len(origins)),
			slog.Any("allowed_origins", origins))
	}
	return c.Handler
}
