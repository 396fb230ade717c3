package log

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware stores a request-scoped logger in the request context and logs
// one line per completed request. An incoming X-Request-ID is kept only when
// it is a UUID; otherwise a new ID is generated.
func Middleware(logger *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := requestIDFrom(r)
			w.Header().Set(RequestIDHeader, requestID)

			reqLogger := logger.With(FieldRequestID, requestID)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(NewContext(r.Context(), reqLogger)))

			level := slog.LevelInfo
			switch {
			case rec.status >= 500:
				level = slog.LevelError
			case rec.status >= 400:
				level = slog.LevelWarn
			}
			reqLogger.Log(r.Context(), level, "HTTP request completed",
				FieldMethod, r.Method,
				FieldPath, r.URL.Path,
				FieldStatusCode, rec.status,
				FieldDuration, time.Since(start).Milliseconds(),
				FieldClientIP, clientIP(r),
				FieldUserAgent, r.UserAgent(),
			)
		})
	}
}

func requestIDFrom(r *http.Request) string {
	if id, err := uuid.Parse(r.Header.Get(RequestIDHeader)); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
