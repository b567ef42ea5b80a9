// Package oauth2 implements the generic user-info exchange used to
// bootstrap a local session from an external identity provider.
//
// The library is a relying party only: a Connector produces the provider's
// consent URL, exchanges the returned authorization code for an access
// token, and fetches the user-info document. BootstrapSession then mints
// the local access/refresh pair for the fetched identity. Google comes
// preconfigured from the GOOGLE_OAUTH2_* environment variables; any
// provider with compatible endpoints works through New.
package oauth2
