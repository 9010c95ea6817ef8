package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gamma-omg/lexi-explore/internal/pkg/router"
)

type httpStatusWriter struct {
	Status int
	Bytes  int
	inner  http.ResponseWriter
}

func (sw *httpStatusWriter) Header() http.Header {
	return sw.inner.Header()
}

func (sw *httpStatusWriter) WriteHeader(status int) {
	if sw.Status == 0 {
		sw.Status = status
	}
	sw.inner.WriteHeader(status)
}

func (sw *httpStatusWriter) Write(b []byte) (int, error) {
	if sw.Status == 0 {
		sw.Status = http.StatusOK
	}
	n, err := sw.inner.Write(b)
	sw.Bytes += n
	return n, err
}

func (sw *httpStatusWriter) Flush() {
	if f, ok := sw.inner.(http.Flusher); ok {
		f.Flush()
	}
}

func Log() router.Middleware {
	return LogWith(slog.Default())
}

func LogWith(l *slog.Logger) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			statusWriter := &httpStatusWriter{inner: w}
			t := time.Now()

			next.ServeHTTP(statusWriter, r)

			status := statusWriter.Status
			if status == 0 {
				status = http.StatusOK
			}

			l.Log(context.Background(), levelFor(status), "request received",
				"time", t,
				"method", r.Method,
				"url", r.URL.String(),
				"ip", r.RemoteAddr,
				"status", status,
				"bytes", statusWriter.Bytes,
				"duration_ms", time.Since(t).Milliseconds(),
				"agent", r.UserAgent())
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
