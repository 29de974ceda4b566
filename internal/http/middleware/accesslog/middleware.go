package accesslog

import (
	"log/slog"
	"net/http"

	sloghttp "github.com/samber/slog-http"
)

// Middleware logs one line per handled request. It must run after the
// request id middleware to reuse its identifier.
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return sloghttp.NewWithConfig(logger, sloghttp.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithUserAgent:    true,
		WithRequestID:    true,
	})
}
