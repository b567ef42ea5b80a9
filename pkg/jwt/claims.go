package jwt

import (
	"encoding/json"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Reserved claim names extracted from the open extension map.
const (
	claimID         = "jti"
	claimIssuer     = "iss"
	claimSubject    = "sub"
	claimAudience   = "aud"
	claimExpiresAt  = "exp"
	claimRateLimit  = "rateLimit"
	claimSecureData = "secureData"
)

// Claims is the token payload: the reserved fields plus arbitrary
// additional claims preserved in Extra.
type Claims struct {
	ID         string         // jti
	Issuer     string         // iss
	Subject    string         // sub
	Audience   []string       // aud: permission/scope strings
	ExpiresAt  int64          // exp, unix seconds
	RateLimit  int            // per-window quota or plan index
	SecureData string         // opaque; ciphertext after issuance when encryption is active
	Extra      map[string]any // remaining claims
}

// MarshalJSON flattens the reserved fields and the extension map into a
// single JSON object. A single-element audience serializes as a plain
// string, matching how the claim is commonly emitted.
func (c Claims) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(c.Extra)+7)
	for k, v := range c.Extra {
		switch k {
		case claimID, claimIssuer, claimSubject, claimAudience, claimExpiresAt, claimRateLimit, claimSecureData:
			// Reserved fields win over extension entries of the same name.
		default:
			m[k] = v
		}
	}

	if c.ID != "" {
		m[claimID] = c.ID
	}
	if c.Issuer != "" {
		m[claimIssuer] = c.Issuer
	}
	if c.Subject != "" {
		m[claimSubject] = c.Subject
	}
	switch len(c.Audience) {
	case 0:
	case 1:
		m[claimAudience] = c.Audience[0]
	default:
		m[claimAudience] = c.Audience
	}
	if c.ExpiresAt != 0 {
		m[claimExpiresAt] = c.ExpiresAt
	}
	if c.RateLimit != 0 {
		m[claimRateLimit] = c.RateLimit
	}
	if c.SecureData != "" {
		m[claimSecureData] = c.SecureData
	}
	return json.Marshal(m)
}

// UnmarshalJSON splits a JSON object back into reserved fields and Extra.
func (c *Claims) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	*c = Claims{}
	for k, v := range m {
		switch k {
		case claimID:
			c.ID, _ = v.(string)
		case claimIssuer:
			c.Issuer, _ = v.(string)
		case claimSubject:
			c.Subject, _ = v.(string)
		case claimAudience:
			c.Audience = toStrings(v)
		case claimExpiresAt:
			if f, ok := v.(float64); ok {
				c.ExpiresAt = int64(f)
			}
		case claimRateLimit:
			if f, ok := v.(float64); ok {
				c.RateLimit = int(f)
			}
		case claimSecureData:
			c.SecureData, _ = v.(string)
		default:
			if c.Extra == nil {
				c.Extra = make(map[string]any)
			}
			c.Extra[k] = v
		}
	}
	return nil
}

// toStrings normalizes an audience claim that may be a single string or an
// ordered sequence.
func toStrings(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return t
	}
	return nil
}

// golang-jwt claims interface. Claim validation is disabled on the parser,
// so these accessors only satisfy the interface.

func (c Claims) GetExpirationTime() (*jwtlib.NumericDate, error) {
	if c.ExpiresAt == 0 {
		return nil, nil
	}
	return jwtlib.NewNumericDate(unixTime(c.ExpiresAt)), nil
}

func (c Claims) GetIssuedAt() (*jwtlib.NumericDate, error)  { return nil, nil }
func (c Claims) GetNotBefore() (*jwtlib.NumericDate, error) { return nil, nil }
func (c Claims) GetIssuer() (string, error)                 { return c.Issuer, nil }
func (c Claims) GetSubject() (string, error)                { return c.Subject, nil }

func (c Claims) GetAudience() (jwtlib.ClaimStrings, error) {
	return jwtlib.ClaimStrings(c.Audience), nil
}
