// Package middleware composes the authentication core into guards the
// host framework registers per route.
//
// Auth is the end-to-end guard: it extracts the bearer token, resolves the
// verification key by kid, verifies the token, consults the blocklist,
// assigns the session to the request context, and optionally rate-limits
// the caller — in that order, per request. RateLimit stands alone for
// unauthenticated routes, deriving an anonymous session when permitted.
// SessionHeaders runs after the handler and serializes whatever session
// the request ended up with onto the response, then clears it from the
// context. RequirePermissions gates a route on the session's scope.
//
// Every failure response Auth and RateLimit produce carries session headers
// describing the attempt. RequirePermissions returns its error to the host
// framework; session headers accompany it only when SessionHeaders finds a
// session on the context.
package middleware
