package middleware

import (
	"net/http"

	"github.com/zanix-io/auth/core/handler"
	"github.com/zanix-io/auth/core/session"
	"github.com/zanix-io/auth/core/sessiontransport"
)

// SessionHeaders creates the response interceptor that serializes the
// request's session onto the response. It runs unconditionally after the
// handler: when a session is present it appends the subject, status, and
// token headers/cookies, then deletes the session from the context so
// nothing leaks across middleware boundaries.
func SessionHeaders[C handler.Context]() handler.Middleware[C] {
	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				if sess, ok := session.FromContext(ctx); ok {
					sessiontransport.ForSession(r, sess).Apply(w)
					session.Clear(ctx)
				}
				return resp(w, r)
			}
		}
	}
}
