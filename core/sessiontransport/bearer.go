package sessiontransport

import (
	"net/http"
	"strings"

	"github.com/zanix-io/auth/core/session"
)

// ExtractBearer returns the bearer token from the type's authorization
// header (Authorization for user, X-Znx-Authorization for api), or ""
// when the header is absent or not in Bearer form.
func ExtractBearer(r *http.Request, t session.Type) string {
	profile := profileFor(t)

	raw := r.Header.Get(profile.AuthHeader)
	if raw == "" {
		return ""
	}

	scheme, token, ok := strings.Cut(raw, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
