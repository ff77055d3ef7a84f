// Package ratelimit counts attempts per caller over a fixed window.
package ratelimit

import (
	"context"
	"net"
	"net/http"

	"github.com/nixfunds/finance-api/internal/apperror"
	"github.com/nixfunds/finance-api/internal/httputil"
	"github.com/nixfunds/finance-api/internal/logging"
)

// Limiter records one attempt for key and reports whether it is still within
// the limit. Implementations must be safe for concurrent use.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

// Middleware rejects requests beyond the limit with 429. Every request counts,
// whatever its outcome. If the limiter itself fails the request is let through.
func Middleware(limiter Limiter, purpose string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := logging.GetLoggerFromContext(r.Context())
			ip := clientIP(r)

			allowed, err := limiter.Allow(r.Context(), purpose+":"+ip)
			if err != nil {
				logger.Error("failed to check rate limit", "error", err.Error())
			} else if !allowed {
				logger.Warn("rate limit exceeded", "ip", ip, "purpose", purpose)
				httputil.RespondError(w, r, apperror.NewRateLimited())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the peer address. It reflects forwarding headers only when the
// router has rewritten RemoteAddr for a trusted proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
