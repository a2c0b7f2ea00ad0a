package api

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mroshb/value_matcher/internal/middleware"
	"github.com/mroshb/value_matcher/internal/security"
	"github.com/mroshb/value_matcher/pkg/errors"
	"github.com/mroshb/value_matcher/pkg/logger"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	requestInfoKey
)

// requestInfo is filled in by inner handlers and read by requestLogger once the
// request completes.
type requestInfo struct {
	userID uint
}

// UserIDFrom returns the authenticated user, or 0 outside authenticated routes.
func UserIDFrom(ctx context.Context) uint {
	id, _ := ctx.Value(userIDKey).(uint)
	return id
}

// requestLogger writes one structured line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		info := &requestInfo{}
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestInfoKey, info)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []interface{}{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", chimiddleware.GetReqID(r.Context()),
		}
		if info.userID != 0 {
			fields = append(fields, "user_id", info.userID)
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("HTTP request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}
	})
}

// authenticate requires a valid bearer token and stores its user ID in the context.
// activity may be nil.
func authenticate(secret string, activity ActivityTracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				respondError(w, r, errors.New(errors.ErrCodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := security.ValidateJWT(strings.TrimSpace(token), secret)
			if err != nil {
				logger.Debug("Rejected token", "path", r.URL.Path, "error", err)
				respondError(w, r, err)
				return
			}

			if info, ok := r.Context().Value(requestInfoKey).(*requestInfo); ok {
				info.userID = claims.UserID
			}
			if activity != nil {
				if err := activity.UpdateLastActivity(r.Context(), claims.UserID); err != nil {
					logger.Warn("Failed to update last activity", "user_id", claims.UserID, "error", err)
				}
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, claims.UserID)))
		})
	}
}

// limitByIP throttles unauthenticated traffic per client address.
func limitByIP(limiter *middleware.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.CheckIPLimit(clientIP(r)) {
				tooManyRequests(w, r, limiter)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// limitByUser throttles authenticated traffic per user.
func limitByUser(limiter *middleware.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserIDFrom(r.Context())
			if !limiter.CheckUserLimit(userID) {
				tooManyRequests(w, r, limiter)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limiter.GetUserRemaining(userID)))
			next.ServeHTTP(w, r)
		})
	}
}

func tooManyRequests(w http.ResponseWriter, r *http.Request, limiter *middleware.RateLimiter) {
	secs := int(limiter.Window().Seconds())
	if secs < 1 {
		secs = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	respondError(w, r, errors.New(errors.ErrCodeRateLimitExceeded, "too many requests, slow down"))
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
