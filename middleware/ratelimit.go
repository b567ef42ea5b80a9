package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/zanix-io/auth/core/cache"
	"github.com/zanix-io/auth/core/handler"
	"github.com/zanix-io/auth/core/response"
	"github.com/zanix-io/auth/core/session"
	"github.com/zanix-io/auth/core/sessiontransport"
	"github.com/zanix-io/auth/pkg/ratelimiter"
)

// Rate-limit response headers.
const (
	HeaderRateLimitLimit     = "X-Znx-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-Znx-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-Znx-RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"
)

// DefaultAnonymousLimit is the per-window quota for anonymous sessions.
const DefaultAnonymousLimit = 100

const rateLimitKeyPrefix = "rate-limit"

// RateLimitConfig configures the standalone rate-limit guard.
type RateLimitConfig struct {
	// Skip defines a function to skip the guard for specific requests.
	Skip func(ctx handler.Context) bool
	// Cache backs the limiter.
	Cache cache.Store
	// Limiter overrides the limiter built from Cache.
	Limiter *ratelimiter.Limiter
	// AnonymousLimit is the quota for requests without a session; defaults
	// to 100. Set DisallowAnonymous to refuse them instead.
	AnonymousLimit int
	// DisallowAnonymous rejects sessionless requests with 401.
	DisallowAnonymous bool
	// Type selects the header table for failure responses; defaults to user.
	Type session.Type
	// Logger receives limiter warnings; nil discards them.
	Logger *slog.Logger
}

// RateLimit creates a standalone rate-limit guard for routes that may be
// hit without authentication. With a session on the context it counts
// against the session's quota; without one it derives an anonymous
// session first, unless anonymous access is disallowed.
func RateLimit[C handler.Context](cfg RateLimitConfig) handler.Middleware[C] {
	if cfg.Type == "" {
		cfg.Type = session.TypeUser
	}
	if cfg.AnonymousLimit <= 0 {
		cfg.AnonymousLimit = DefaultAnonymousLimit
	}

	limiter := cfg.Limiter
	if limiter == nil {
		if cfg.Cache == nil {
			panic("ratelimit middleware: cache or limiter is required")
		}
		var err error
		if limiter, err = ratelimiter.New(cfg.Cache, ratelimiter.WithLogger(cfg.Logger)); err != nil {
			panic("ratelimit middleware: " + err.Error())
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}
			r := ctx.Request()

			sess, ok := session.FromContext(ctx)
			if !ok {
				if cfg.DisallowAnonymous {
					return failureResponse(r, cfg.Type, session.StatusFailed, response.ErrUnauthorized)
				}
				sess = session.GenerateAnonymousSession(cfg.AnonymousLimit, r.Header)
				session.Assign(ctx, sess)
			}

			result, err := checkSessionLimit(ctx, limiter, sess)
			if err != nil {
				return failureResponse(r, cfg.Type, session.StatusFailed,
					response.ErrInternalServerError.WithError(err))
			}
			if !result.CanContinue {
				session.Clear(ctx)
				return blockedResponse(r, cfg.Type, result)
			}

			return wrapWithRateLimitHeaders(next(ctx), result)
		}
	}
}

// checkSessionLimit counts the request against the session's window. The
// session's rateLimit value goes through the plan table first.
func checkSessionLimit(ctx handler.Context, limiter *ratelimiter.Limiter, sess *session.Session) (*ratelimiter.Result, error) {
	return limiter.Check(ctx, ratelimiter.CheckOptions{
		Key:         cache.Key(rateLimitKeyPrefix, sess.ID),
		MaxRequests: ratelimiter.PlanLookup(sess.RateLimit),
	})
}

// blockedResponse renders the 429 with Retry-After, rate-limit headers,
// and session headers at status blocked.
func blockedResponse(r *http.Request, t session.Type, result *ratelimiter.Result) handler.Response {
	headers := sessiontransport.DefaultSessionHeaders(r, t, session.StatusBlocked)
	httpErr := response.ErrTooManyRequests.WithDetails(map[string]any{
		"retryAfter": int(result.RetryAfter().Seconds()),
	})

	return func(w http.ResponseWriter, req *http.Request) error {
		headers.Apply(w)
		setRateLimitHeaders(w, result)
		return response.JSONWithStatus(httpErr, httpErr.Status)(w, req)
	}
}

// wrapWithRateLimitHeaders forwards the window state upstream on success.
func wrapWithRateLimitHeaders(resp handler.Response, result *ratelimiter.Result) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		setRateLimitHeaders(w, result)
		return resp(w, r)
	}
}

func setRateLimitHeaders(w http.ResponseWriter, result *ratelimiter.Result) {
	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(result.Limit))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(result.Remaining()))
	w.Header().Set(HeaderRateLimitReset, strconv.FormatInt(result.ResetAt().Unix(), 10))

	if !result.CanContinue {
		w.Header().Set(HeaderRetryAfter, strconv.Itoa(int(result.RetryAfter().Seconds())))
	}
}
