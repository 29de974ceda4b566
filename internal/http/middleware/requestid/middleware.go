package requestid

import (
	"log/slog"
	"net/http"

	httpCtx "github.com/bornholm/clubhouse/internal/http/context"
	"github.com/bornholm/go-x/slogx"
	"github.com/rs/xid"
)

const Header = "X-Request-Id"

// Middleware assigns an identifier to every request and attaches it to the
// request logger. The identifier is also set on the request headers so the
// access log picks it up.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := xid.New().String()

			ctx := httpCtx.SetRequestID(r.Context(), requestID)
			ctx = slogx.WithAttrs(ctx, slog.String("requestID", requestID))

			r = r.WithContext(ctx)
			r.Header.Set(Header, requestID)
			w.Header().Set(Header, requestID)

			next.ServeHTTP(w, r)
		})
	}
}
