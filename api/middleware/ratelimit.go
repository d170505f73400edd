package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/api/weberr"
	"github.com/irsalhamdi/eduverse/rate"
)

// RateLimit rejects callers whose remote address exhausted its bucket.
func RateLimit(l *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !l.Check(host) {
				err := errors.New("rate limit exceeded")
				return weberr.NewError(err, "too many requests, slow down", http.StatusTooManyRequests)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
