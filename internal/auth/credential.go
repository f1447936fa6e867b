package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// StrategyKind identifies the authentication strategy that produced a
// credential. Refresh always reuses the strategy that created the credential.
type StrategyKind string

const (
	// StrategyClasp delegates to an externally managed clasp CLI session.
	StrategyClasp StrategyKind = "clasp"
	// StrategyOAuth2 is the standard OAuth 2.0 authorization code flow.
	StrategyOAuth2 StrategyKind = "oauth2"
	// StrategyOAuth21 is OAuth 2.1 with mandatory PKCE.
	StrategyOAuth21 StrategyKind = "oauth21"
)

// Credential holds the token material stored per identity. The identity (a
// Google account email) is the primary key for all lookups and is immutable
// once a credential is stored under it.
type Credential struct {
	Identity     string       `json:"identity"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	TokenType    string       `json:"token_type,omitempty"`
	Expiry       time.Time    `json:"expiry"`
	Scopes       []string     `json:"scopes,omitempty"`
	ClientID     string       `json:"client_id,omitempty"`
	ClientSecret string       `json:"client_secret,omitempty"`
	Strategy     StrategyKind `json:"strategy"`
}

// Token converts the credential into an oauth2 token.
func (c *Credential) Token() *oauth2.Token {
	tokenType := c.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    tokenType,
		Expiry:       c.Expiry,
	}
}

// Usable reports whether the access token is still valid when the given
// safety skew is subtracted from its expiry. A zero expiry means the token
// does not expire.
func (c *Credential) Usable(skew time.Duration) bool {
	if c.AccessToken == "" {
		return false
	}
	if c.Expiry.IsZero() {
		return true
	}
	return time.Now().Add(skew).Before(c.Expiry)
}

// CanRefresh reports whether a refresh exchange is possible at all. A
// credential with no refresh token and an expired access token is unusable
// and must trigger a fresh interactive flow instead.
func (c *Credential) CanRefresh() bool {
	return c.RefreshToken != ""
}

// updateFrom applies a refreshed token to the credential. The refresh token
// is replaced only when the exchange returned a new one; some strategies
// rotate it, others omit it from the response.
func (c *Credential) updateFrom(token *oauth2.Token) {
	c.AccessToken = token.AccessToken
	c.Expiry = token.Expiry
	if token.TokenType != "" {
		c.TokenType = token.TokenType
	}
	if token.RefreshToken != "" {
		c.RefreshToken = token.RefreshToken
	}
}
