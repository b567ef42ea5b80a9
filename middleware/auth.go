package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/zanix-io/auth/core/blocklist"
	"github.com/zanix-io/auth/core/cache"
	"github.com/zanix-io/auth/core/handler"
	"github.com/zanix-io/auth/core/keyring"
	"github.com/zanix-io/auth/core/kv"
	"github.com/zanix-io/auth/core/response"
	"github.com/zanix-io/auth/core/session"
	"github.com/zanix-io/auth/core/sessiontransport"
	"github.com/zanix-io/auth/pkg/jwt"
	"github.com/zanix-io/auth/pkg/ratelimiter"
)

const missingBearerMessage = "Authorization token is missing or invalid."

const blocklistedMessage = "The provided token has been revoked or is blocklisted."

// AuthConfig configures the authentication guard.
type AuthConfig struct {
	// Skip defines a function to skip the guard for specific requests.
	Skip func(ctx handler.Context) bool
	// Type selects the token profile; defaults to user.
	Type session.Type
	// Issuer is the expected iss claim; defaults to the configured issuer.
	Issuer string
	// Subject, when set, pins the expected sub claim. Otherwise the
	// client-asserted subject (cookie or header) is used when present.
	Subject string
	// Permissions required on the token audience (any-of).
	Permissions []string
	// EncryptionKey decrypts the token's secureData claim.
	EncryptionKey string
	// Cache enables the blocklist consult and backs the rate limiter.
	Cache cache.Store
	// KV is the durable blocklist tier used alongside a local cache.
	KV kv.Store
	// RateLimit enables per-session rate limiting after verification.
	RateLimit bool
	// Limiter overrides the limiter built from Cache.
	Limiter *ratelimiter.Limiter
	// Logger receives guard warnings; nil discards them.
	Logger *slog.Logger
}

// Auth creates the authentication guard. Requests pass through
// verify -> blocklist-check -> session-assign -> rate-limit; any failure
// renders an error response decorated with default session headers.
func Auth[C handler.Context](cfg AuthConfig) handler.Middleware[C] {
	if cfg.Type == "" {
		cfg.Type = session.TypeUser
	}
	profile, ok := session.GetProfile(cfg.Type)
	if !ok {
		panic("auth middleware: unsupported session type " + string(cfg.Type))
	}
	if cfg.Issuer == "" {
		cfg.Issuer = jwt.DefaultIssuer()
	}

	limiter := cfg.Limiter
	if limiter == nil && cfg.RateLimit && cfg.Cache != nil {
		var err error
		if limiter, err = ratelimiter.New(cfg.Cache, ratelimiter.WithLogger(cfg.Logger)); err != nil {
			panic("auth middleware: " + err.Error())
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}
			r := ctx.Request()

			token := sessiontransport.ExtractBearer(r, cfg.Type)
			if token == "" {
				return failureResponse(r, cfg.Type, session.StatusFailed,
					response.ErrUnauthorized.WithMessage(missingBearerMessage))
			}

			decoded, err := jwt.Decode(token)
			if err != nil {
				return failureResponse(r, cfg.Type, session.StatusFailed,
					response.ErrUnauthorized.WithMessage(missingBearerMessage))
			}

			secret, err := keyring.ByKid(profile.VerifyPrefix, decoded.KeyID())
			if err != nil {
				return failureResponse(r, cfg.Type, session.StatusFailed,
					response.ErrInternalServerError.WithError(err))
			}

			subject := cfg.Subject
			if subject == "" {
				subject = sessiontransport.ClientSubject(r, cfg.Type)
			}

			claims, err := jwt.Verify(token, secret, jwt.VerifyOptions{
				Algorithm:     profile.Algorithm,
				Issuer:        cfg.Issuer,
				Subject:       subject,
				Audience:      cfg.Permissions,
				EncryptionKey: cfg.EncryptionKey,
				Logger:        cfg.Logger,
			})
			if err != nil {
				return failureResponse(r, cfg.Type, session.StatusFailed, httpError(err))
			}

			if cfg.Cache != nil {
				listed, err := blocklist.Check(ctx, claims.ID, cfg.Cache, cfg.KV)
				if err != nil {
					return failureResponse(r, cfg.Type, session.StatusFailed,
						response.ErrInternalServerError.WithError(err))
				}
				if listed {
					return failureResponse(r, cfg.Type, session.StatusFailed,
						response.ErrPermissionDenied.WithMessage(blocklistedMessage))
				}
			}

			sess := session.FromClaims(claims, cfg.Type)
			session.Assign(ctx, sess)

			var result *ratelimiter.Result
			if cfg.RateLimit && limiter != nil {
				result, err = checkSessionLimit(ctx, limiter, sess)
				if err != nil {
					return failureResponse(r, cfg.Type, session.StatusFailed,
						response.ErrInternalServerError.WithError(err))
				}
				if !result.CanContinue {
					// The 429 carries its own blocked-session headers; drop
					// the session so the interceptor does not re-serialize it.
					session.Clear(ctx)
					return blockedResponse(r, cfg.Type, result)
				}
			}

			sess.Status = session.StatusActive
			sess.Token = token

			resp := next(ctx)
			if result != nil {
				return wrapWithRateLimitHeaders(resp, result)
			}
			return resp
		}
	}
}

// failureResponse renders an error decorated with the default session
// headers describing the failed attempt.
func failureResponse(r *http.Request, t session.Type, status session.Status, httpErr response.HTTPError) handler.Response {
	headers := sessiontransport.DefaultSessionHeaders(r, t, status)
	return func(w http.ResponseWriter, req *http.Request) error {
		headers.Apply(w)
		return response.JSONWithStatus(httpErr, httpErr.Status)(w, req)
	}
}

// httpError converts a verification failure into its HTTP form: codec
// validation errors map to 403 (401 for ErrInvalidToken) with their code
// and metadata, HTTPError values pass through, anything else is internal.
func httpError(err error) response.HTTPError {
	var verr *jwt.ValidationError
	if errors.As(err, &verr) {
		status := http.StatusForbidden
		if errors.Is(err, jwt.ErrInvalidToken) {
			status = http.StatusUnauthorized
		}
		return response.HTTPError{
			Status:  status,
			Code:    verr.Code,
			Message: err.Error(),
			Details: verr.Meta,
		}
	}

	var httpErr response.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return response.ErrInternalServerError.WithError(err)
}
