package session

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"

	"github.com/zanix-io/auth/pkg/clientip"
)

const (
	unknownAgent  = "unknown-agent"
	maxAgentChars = 256
)

// AnonymousID derives a stable, privacy-preserving identifier from the
// client IP and user agent. Malformed IPs collapse to a sentinel before
// hashing, so header spoofing cannot mint unbounded identities from one
// address family.
func AnonymousID(h http.Header) string {
	ip := clientip.FromHeaders(h)

	agent := h.Get("User-Agent")
	if agent == "" {
		agent = unknownAgent
	}
	if len(agent) > maxAgentChars {
		agent = agent[:maxAgentChars]
	}

	sum := md5.Sum([]byte(ip + "-" + agent))
	return "anonymous-" + hex.EncodeToString(sum[:])
}

// GenerateAnonymousSession builds the session used for unauthenticated
// traffic: rate-limited, but carrying no subject or scope.
func GenerateAnonymousSession(rateLimit int, h http.Header) *Session {
	return &Session{
		ID:        AnonymousID(h),
		Type:      TypeAnonymous,
		RateLimit: rateLimit,
		Status:    StatusUnconfirmed,
	}
}
