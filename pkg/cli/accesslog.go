package cli

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/specgate/specgate/pkg/logging"
)

// statusWriter remembers the status code for the access log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// accessLog tags every request with a generated request ID, attaches a
// request-scoped logger to the context, and logs method, path, status, and
// duration on completion.
func accessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.New().String()

			reqLogger := logger.With("request_id", requestID)
			r = r.WithContext(logging.WithContext(r.Context(), reqLogger))

			sw := &statusWriter{ResponseWriter: w}
			w.Header().Set("X-Request-Id", requestID)
			next.ServeHTTP(sw, r)

			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}
			reqLogger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration", time.Since(start),
			)
		})
	}
}
