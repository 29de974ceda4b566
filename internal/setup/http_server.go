package setup

import (
	"context"
	"log/slog"

	"github.com/bornholm/clubhouse/internal/config"
	"github.com/bornholm/clubhouse/internal/http"
	"github.com/bornholm/clubhouse/internal/http/handler/metrics"
	"github.com/bornholm/clubhouse/internal/http/middleware/accesslog"
	"github.com/bornholm/clubhouse/internal/http/middleware/ratelimit"
	"github.com/bornholm/clubhouse/internal/http/middleware/requestid"
	"github.com/pkg/errors"
)

func NewHTTPServerFromConfig(ctx context.Context, conf *config.Config) (*http.Server, error) {
	api, err := getAPIHandlerFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not configure api handler from config")
	}

	middlewares := []http.Middleware{
		requestid.Middleware(),
		accesslog.Middleware(slog.Default()),
	}

	if conf.HTTP.RateLimit.Enabled {
		middlewares = append(middlewares, ratelimit.Middleware(
			ratelimit.WithTrustHeaders(conf.HTTP.RateLimit.TrustHeaders),
			ratelimit.WithLimit(conf.HTTP.RateLimit.Interval, conf.HTTP.RateLimit.Burst),
			ratelimit.WithCache(conf.HTTP.RateLimit.CacheSize, conf.HTTP.RateLimit.CacheTTL),
		))
	}

	options := []http.OptionFunc{
		http.WithAddress(conf.HTTP.Address),
		http.WithBaseURL(conf.HTTP.BaseURL),
		http.WithAllowedOrigins(conf.HTTP.CORS.AllowedOrigins...),
		http.WithMiddlewares(middlewares...),
		http.WithMount("/api/v1/", api),
		http.WithMount("/metrics/", metrics.NewHandler()),
	}

	server := http.NewServer(options...)

	return server, nil
}
