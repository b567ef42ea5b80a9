package oauth2

import "github.com/caarlos0/env/v11"

// Google provider endpoints.
const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type googleEnv struct {
	ClientID     string `env:"GOOGLE_OAUTH2_CLIENT_ID,required"`
	ClientSecret string `env:"GOOGLE_OAUTH2_CLIENT_SECRET,required"`
	RedirectURL  string `env:"GOOGLE_OAUTH2_REDIRECT_URI,required"`
}

// Google creates a connector for Google's OAuth2 endpoints from the
// GOOGLE_OAUTH2_* environment variables.
func Google(scopes ...string) (*Connector, error) {
	var cfg googleEnv
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if len(scopes) == 0 {
		scopes = []string{"openid", "email", "profile"}
	}

	return New(Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       scopes,
		AuthURL:      googleAuthURL,
		TokenURL:     googleTokenURL,
		UserInfoURL:  googleUserInfoURL,
	}), nil
}
