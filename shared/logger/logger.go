// Package logger builds the zerolog loggers used by the services.
package logger

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

const EnvProduction = "production"

// New creates a logger writing JSON lines in production and a
// human-readable console format everywhere else.
func New(env, service string) *zerolog.Logger {
	return NewWithWriter(env, service, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(env, service string, w io.Writer) *zerolog.Logger {
	level := zerolog.DebugLevel
	if env == EnvProduction {
		level = zerolog.InfoLevel
	} else {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()

	return &logger
}

// HTTPMiddleware attaches logger to each request context, tags the request
// with an id (X-Request-ID) and writes one access log line per request.
func HTTPMiddleware(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		h := hlog.AccessHandler(accessLog)(next)
		h = hlog.RequestIDHandler("req_id", "X-Request-ID")(h)
		return hlog.NewHandler(*logger)(h)
	}
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	event := hlog.FromRequest(r).Info()
	if status >= http.StatusInternalServerError {
		event = hlog.FromRequest(r).Error()
	}

	event.
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}
