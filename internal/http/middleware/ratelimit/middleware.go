package ratelimit

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

type Options struct {
	// TrustHeaders identifies clients with X-Forwarded-For and X-Real-Ip
	// when set. Only enable it behind a trusted proxy.
	TrustHeaders bool
	Interval     time.Duration
	Burst        int
	CacheSize    int
	CacheTTL     time.Duration
}

type OptionFunc func(opts *Options)

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{
		Interval:  100 * time.Millisecond,
		Burst:     20,
		CacheSize: 1024,
		CacheTTL:  10 * time.Minute,
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

func WithTrustHeaders(trust bool) OptionFunc {
	return func(opts *Options) {
		opts.TrustHeaders = trust
	}
}

func WithLimit(interval time.Duration, burst int) OptionFunc {
	return func(opts *Options) {
		opts.Interval = interval
		opts.Burst = burst
	}
}

func WithCache(size int, ttl time.Duration) OptionFunc {
	return func(opts *Options) {
		opts.CacheSize = size
		opts.CacheTTL = ttl
	}
}

// Middleware limits the request rate of each client with a token bucket.
// Buckets of idle clients are evicted after the cache TTL.
func Middleware(funcs ...OptionFunc) func(http.Handler) http.Handler {
	opts := NewOptions(funcs...)

	cache := expirable.NewLRU[string, *rate.Limiter](opts.CacheSize, nil, opts.CacheTTL)

	getLimiter := func(client string) *rate.Limiter {
		limiter, exists := cache.Get(client)
		if !exists {
			limiter = rate.NewLimiter(rate.Every(opts.Interval), opts.Burst)
			cache.Add(client, limiter)
		}

		return limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := getLimiter(ClientAddr(r, opts.TrustHeaders))

			now := time.Now()

			reservation := limiter.ReserveN(now, 1)
			if !reservation.OK() {
				tooManyRequests(w, 0)
				return
			}

			if delay := reservation.DelayFrom(now); delay > 0 {
				reservation.CancelAt(now)
				tooManyRequests(w, delay)
				return
			}

			tokens := limiter.TokensAt(now)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(opts.Burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(math.Max(0, math.Floor(tokens)))))

			// Time for the bucket to be full again
			missing := float64(opts.Burst) - tokens
			reset := now.Add(time.Duration(missing * float64(opts.Interval)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			next.ServeHTTP(w, r)
		})
	}
}

// ClientAddr returns the address identifying the client of the request.
func ClientAddr(r *http.Request, trustHeaders bool) string {
	if trustHeaders {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}

		if xri := r.Header.Get("X-Real-Ip"); xri != "" {
			return xri
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return ip
}

func tooManyRequests(w http.ResponseWriter, retryAfter time.Duration) {
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": http.StatusText(http.StatusTooManyRequests),
	})
}
