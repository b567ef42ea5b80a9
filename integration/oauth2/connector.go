package oauth2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

var (
	// ErrExchangeFailed is returned when the authorization code cannot be
	// exchanged for an access token.
	ErrExchangeFailed = errors.New("oauth2: code exchange failed")
	// ErrUserInfoFailed is returned when the user-info document cannot be
	// fetched or decoded.
	ErrUserInfoFailed = errors.New("oauth2: user info fetch failed")
)

// User is the normalized identity fetched from the provider.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
	Verified bool   `json:"verified_email"`
}

// Config describes a provider.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

// Connector performs the authorization-code flow against one provider.
type Connector struct {
	oauth       *oauth2.Config
	userInfoURL string
}

// New creates a connector for the given provider configuration.
func New(cfg Config) *Connector {
	return &Connector{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		userInfoURL: cfg.UserInfoURL,
	}
}

// GenerateAuthURL returns the provider's consent URL for the given state.
func (c *Connector) GenerateAuthURL(state string, opts ...oauth2.AuthCodeOption) string {
	return c.oauth.AuthCodeURL(state, opts...)
}

// Authenticate exchanges an authorization code and fetches the user-info
// document with the resulting token.
func (c *Connector) Authenticate(ctx context.Context, code string) (*User, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Join(ErrExchangeFailed, err)
	}
	return c.userInfo(ctx, c.oauth.Client(ctx, token))
}

// UserInfo fetches the user-info document with an already-held access
// token.
func (c *Connector) UserInfo(ctx context.Context, accessToken string) (*User, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	return c.userInfo(ctx, client)
}

func (c *Connector) userInfo(ctx context.Context, client *http.Client) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, errors.Join(ErrUserInfoFailed, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Join(ErrUserInfoFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUserInfoFailed, resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, errors.Join(ErrUserInfoFailed, err)
	}
	return &user, nil
}
