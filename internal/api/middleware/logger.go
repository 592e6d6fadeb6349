package middleware

import (
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/folio/internal/logging"
)

// Logger is a middleware that logs HTTP requests
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		// strip CR/LF from user-supplied values
		sanitize := strings.NewReplacer("\n", "", "\r", "").Replace
		fields := []interface{}{
			"method", sanitize(r.Method),
			"path", sanitize(r.URL.Path),
			"status", wrapped.statusCode,
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		}

		log := logging.Get()
		switch {
		case wrapped.statusCode >= http.StatusInternalServerError:
			log.Errorw("request", fields...)
		case wrapped.statusCode >= http.StatusBadRequest:
			log.Warnw("request", fields...)
		default:
			log.Infow("request", fields...)
		}
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
