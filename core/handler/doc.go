// Package handler defines the contracts between the authentication core and
// the host HTTP framework.
//
// The core never depends on a concrete router or server. Guards and
// interceptors are expressed as Middleware values over a narrow Context
// interface, and handlers produce Response functions that render themselves
// onto the standard library's ResponseWriter. Any framework that can expose
// a request, a response writer, and per-request values can host the guards.
//
// NewContext returns a minimal Context implementation suitable for tests and
// for hosts that do not carry their own request context type.
package handler
