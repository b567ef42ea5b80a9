package oauth2

import (
	"github.com/zanix-io/auth/core/handler"
	"github.com/zanix-io/auth/core/session"
)

// BootstrapSession completes the authorization-code flow and mints the
// local access/refresh pair for the fetched identity. The provider user id
// becomes the token subject (falling back to the email), and the profile
// facts land in the token payload.
func BootstrapSession(ctx handler.Context, c *Connector, code string, opts session.TokenOptions) (*User, *session.TokenPair, error) {
	user, err := c.Authenticate(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	if opts.Subject == "" {
		opts.Subject = user.ID
		if opts.Subject == "" {
			opts.Subject = user.Email
		}
	}

	payload := make(map[string]any, len(opts.Payload)+2)
	for k, v := range opts.Payload {
		payload[k] = v
	}
	if user.Email != "" {
		payload["email"] = user.Email
	}
	if user.Name != "" {
		payload["name"] = user.Name
	}
	opts.Payload = payload

	pair, err := session.GenerateSessionTokens(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}
