package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/foodrecipe/internal/common"
	"github.com/dmitrijs2005/foodrecipe/internal/logging"
	"github.com/dmitrijs2005/foodrecipe/internal/server/auth"
	"github.com/dmitrijs2005/foodrecipe/internal/server/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

type ctxKey string

const (
	claimsKey ctxKey = "claims"
	adminKey  ctxKey = "admin"
)

const requestIDHeader = "X-Request-ID"

// claimsFromContext returns the verified token claims, or nil for an
// anonymous request.
func claimsFromContext(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey).(*auth.Claims)
	return c
}

// requestID copies the id assigned by chimiddleware.RequestID into the
// logging context and echoes it to the client.
func (h *Handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chimiddleware.GetReqID(r.Context())
		if id != "" {
			w.Header().Set(requestIDHeader, id)
			r = r.WithContext(logging.ContextWithRequestID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// instrument records Prometheus metrics and a debug log line per request.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		metrics.RecordRequest(r.Method, route, status, elapsed)
		h.logger.Debug(r.Context(), "request served",
			"method", r.Method, "route", route, "status", status, "duration", elapsed.String())
	})
}

// authenticate verifies a bearer token and stores its claims in the request
// context. Without a token the request is rejected when required is set and
// passed on anonymously otherwise. A token that is present but invalid is
// always rejected.
func (h *Handler) authenticate(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(common.AuthorizationHeaderName)
			if header == "" {
				if required {
					h.writeError(r.Context(), w, http.StatusUnauthorized, "missing token")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, common.BearerPrefix)
			if !ok || token == "" {
				h.fail(w, r, common.ErrInvalidToken)
				return
			}

			claims, err := auth.ParseToken(token, h.jwtSecret)
			if err != nil {
				h.fail(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireRole admits admins whose role satisfies required. It must run
// after authenticate(true).
func (h *Handler) requireRole(required string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFromContext(r.Context())
			if !claims.IsAdmin() {
				h.fail(w, r, common.ErrorUnauthorized)
				return
			}

			account, err := h.admins.Account(r.Context(), claims.AdminLogin)
			if err != nil {
				h.fail(w, r, err)
				return
			}

			allowed, err := h.roles.Allowed(account.Role, required)
			if err != nil {
				h.fail(w, r, err)
				return
			}
			if !allowed {
				h.fail(w, r, common.ErrForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), adminKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// loginLimit throttles credential endpoints per client IP.
func (h *Handler) loginLimit() func(http.Handler) http.Handler {
	if h.cfg.LoginRateLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(h.cfg.LoginRateLimit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			h.writeError(r.Context(), w, http.StatusTooManyRequests, "too many login attempts")
		}),
	)
}
