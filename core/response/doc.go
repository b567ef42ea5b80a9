// Package response provides the HTTP error model and response constructors
// used by the authentication guards.
//
// Errors are structured HTTPError values carrying a status code, a
// machine-readable code, a human-readable message, and optional details.
// Guards convert internal failures into HTTPError responses decorated with
// session headers before rendering; outside the guards, errors propagate
// unchanged to the host framework for serialization.
package response
