package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/velocejet/charter-api/internal/auth"
)

// responseWriter captures the status code and body size for access logging
// and metrics.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logging writes one access log line per request. Each request gets a
// generated ID that is echoed back in the X-Request-ID response header so
// clients can quote it in support tickets.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.New().String()
			r.Header.Set("X-Request-ID", requestID)
			w.Header().Set("X-Request-ID", requestID)

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			start := time.Now()
			next.ServeHTTP(rw, r)
			elapsed := time.Since(start)

			logger.Info(requestSummary(r, rw.statusCode, elapsed), accessFields(r, rw, requestID, elapsed)...)
		})
	}
}

func requestSummary(r *http.Request, status int, elapsed time.Duration) string {
	return fmt.Sprintf("%s %-30s -> %3d (%s)", r.Method, r.URL.Path, status, elapsed.Truncate(time.Microsecond))
}

func accessFields(r *http.Request, rw *responseWriter, requestID string, elapsed time.Duration) []zap.Field {
	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("remote_addr", r.RemoteAddr),
		zap.Int("status_code", rw.statusCode),
		zap.Int64("response_size", rw.written),
		zap.Duration("duration", elapsed),
	}
	if userCtx, ok := auth.FromContext(r.Context()); ok {
		fields = append(fields, zap.String("user_id", userCtx.UserID.String()))
	}
	return fields
}
