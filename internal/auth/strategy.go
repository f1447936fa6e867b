package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// exchangeTimeout bounds every network call to the token endpoint so a tool
// call can never hang indefinitely on a refresh or code exchange.
const exchangeTimeout = 15 * time.Second

// ClientConfig holds the Google OAuth client registration used by the
// browser-based strategies.
type ClientConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Strategy is the fixed capability set every authentication strategy
// implements: build an authorization request, exchange an authorization code
// for tokens, and refresh tokens. The protocol details differ (PKCE is
// required only for OAuth 2.1; clasp bypasses the browser handshake), but
// callers never need to know which.
type Strategy interface {
	// Kind identifies the strategy. It is recorded on every credential the
	// strategy produces so refresh later uses the same strategy.
	Kind() StrategyKind

	// AuthCodeURL builds the provider authorization URL for a pending flow.
	// An empty URL means the strategy needs no browser handshake.
	AuthCodeURL(flow *PendingFlow) string

	// Exchange trades an authorization code for a credential.
	Exchange(ctx context.Context, flow *PendingFlow, code string) (*Credential, error)

	// Refresh performs the refresh exchange for a credential previously
	// produced by this strategy.
	Refresh(ctx context.Context, cred *Credential) (*oauth2.Token, error)
}

// codeStrategy implements the OAuth 2.0 and OAuth 2.1 authorization code
// flows. The only difference between the two is the PKCE parameters.
type codeStrategy struct {
	kind     StrategyKind
	cfg      ClientConfig
	endpoint oauth2.Endpoint
}

// NewOAuth2Strategy creates the standard OAuth 2.0 authorization code
// strategy against Google's endpoints.
func NewOAuth2Strategy(cfg ClientConfig) Strategy {
	return &codeStrategy{kind: StrategyOAuth2, cfg: cfg, endpoint: google.Endpoint}
}

// NewOAuth21Strategy creates the OAuth 2.1 strategy. It is identical to
// OAuth 2.0 except that every authorization request carries an S256 PKCE
// challenge and every exchange carries the matching verifier.
func NewOAuth21Strategy(cfg ClientConfig) Strategy {
	return &codeStrategy{kind: StrategyOAuth21, cfg: cfg, endpoint: google.Endpoint}
}

func (s *codeStrategy) Kind() StrategyKind {
	return s.kind
}

func (s *codeStrategy) config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		RedirectURL:  s.cfg.RedirectURL,
		Endpoint:     s.endpoint,
		Scopes:       s.cfg.Scopes,
	}
}

func (s *codeStrategy) AuthCodeURL(flow *PendingFlow) string {
	conf := s.config()

	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce, // ensures Google returns a refresh token
	}
	if s.kind == StrategyOAuth21 {
		opts = append(opts,
			oauth2.SetAuthURLParam("code_challenge", GenerateCodeChallenge(flow.CodeVerifier)),
			oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		)
	}

	return conf.AuthCodeURL(flow.State, opts...)
}

func (s *codeStrategy) Exchange(ctx context.Context, flow *PendingFlow, code string) (*Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	var opts []oauth2.AuthCodeOption
	if s.kind == StrategyOAuth21 {
		opts = append(opts, oauth2.SetAuthURLParam("code_verifier", flow.CodeVerifier))
	}

	token, err := s.config().Exchange(ctx, code, opts...)
	if err != nil {
		return nil, &ExchangeError{Strategy: s.kind, Err: err}
	}

	identity := flow.IdentityHint
	if idToken, ok := token.Extra("id_token").(string); ok {
		if email, known := EmailFromIDToken(idToken); known {
			identity = email
		}
	}
	if identity == "" {
		identity = DefaultIdentity
	}

	return &Credential{
		Identity:     identity,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
		Scopes:       flow.Scopes,
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		Strategy:     s.kind,
	}, nil
}

func (s *codeStrategy) Refresh(ctx context.Context, cred *Credential) (*oauth2.Token, error) {
	if cred.RefreshToken == "" {
		return nil, fmt.Errorf("no refresh token available")
	}

	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	conf := s.config()
	// The client registration recorded on the credential wins over the
	// strategy default, so credentials survive a client rotation.
	if cred.ClientID != "" {
		conf.ClientID = cred.ClientID
		conf.ClientSecret = cred.ClientSecret
	}

	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken})
	return ts.Token()
}
