package middleware

import (
	"github.com/zanix-io/auth/core/handler"
	"github.com/zanix-io/auth/core/response"
	"github.com/zanix-io/auth/core/session"
	"github.com/zanix-io/auth/pkg/scopes"
)

// RequirePermissions gates a route on the session's scope. The check is
// any-of: holding any one of the listed permissions (or the wildcard)
// passes. Requests without a session are rejected outright.
func RequirePermissions[C handler.Context](permissions ...string) handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			sess, ok := session.FromContext(ctx)
			if !ok {
				return response.Error(response.ErrUnauthorized)
			}

			if err := scopes.Validate(permissions, sess.Scope); err != nil {
				return response.Error(response.ErrPermissionDenied.WithMessage(err.Error()))
			}
			return next(ctx)
		}
	}
}
