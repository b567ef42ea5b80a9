package clientip

import (
	"net/http"
	"regexp"
	"strings"
)

// Sentinels returned when no candidate exists or the candidate is malformed.
const (
	Unknown = "unknown-ip"
	Invalid = "invalid-ip"
)

var ipv4Pattern = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)

// GetIP resolves the client IP from the request headers.
// The result is either a dotted-quad IPv4 address or one of the sentinels.
func GetIP(r *http.Request) string {
	return FromHeaders(r.Header)
}

// FromHeaders resolves the client IP from a header set.
func FromHeaders(h http.Header) string {
	ip := Unknown

	if fwd := h.Get("X-Forwarded-For"); fwd != "" {
		// X-Forwarded-For may contain "client, proxy1, proxy2"; the
		// leftmost entry is the original client.
		ip = strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	} else if cf := h.Get("CF-Connecting-IP"); cf != "" {
		ip = cf
	} else if real := h.Get("X-Real-IP"); real != "" {
		ip = real
	}

	if ip != Unknown && !ipv4Pattern.MatchString(ip) {
		return Invalid
	}
	return ip
}
