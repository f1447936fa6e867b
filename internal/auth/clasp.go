package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// claspRC mirrors the on-disk ~/.clasprc.json written by the clasp CLI.
// Two formats exist in the wild: the legacy flat layout (clasp 2.x) and the
// keyed "tokens" layout (clasp 3.x). Both are read; neither is ever written.
type claspRC struct {
	// Legacy layout
	Token    *claspToken `json:"token,omitempty"`
	Settings *struct {
		ClientID     string `json:"clientId"`
		ClientSecret string `json:"clientSecret"`
	} `json:"oauth2ClientSettings,omitempty"`

	// Current layout
	Tokens map[string]*claspUserToken `json:"tokens,omitempty"`
}

type claspToken struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	IDToken      string `json:"id_token"`
	ExpiryDate   int64  `json:"expiry_date"` // milliseconds since epoch
}

type claspUserToken struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
	ExpiryDate   int64  `json:"expiry_date"`
}

// ClaspRCPath returns the location of the clasp CLI's session file.
func ClaspRCPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clasprc.json"
	}
	return filepath.Join(home, ".clasprc.json")
}

// HasClaspSession reports whether a usable clasp CLI session exists at path.
func HasClaspSession(path string) bool {
	_, err := LoadClaspCredential(path)
	return err == nil
}

// LoadClaspCredential reads the clasp CLI's session file and wraps it in a
// credential. The session is externally managed: this package only ever
// reads the file, refreshed access tokens are cached in the credential
// store, never written back.
//
// A missing file yields ErrNotFound; an unreadable or unparseable one is a
// storage failure.
func LoadClaspCredential(path string) (*Credential, error) {
	if path == "" {
		path = ClaspRCPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no clasp session at %s: %w", path, ErrNotFound)
		}
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}

	var rc claspRC
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}

	switch {
	case rc.Token != nil:
		cred := &Credential{
			AccessToken:  rc.Token.AccessToken,
			RefreshToken: rc.Token.RefreshToken,
			TokenType:    rc.Token.TokenType,
			Expiry:       time.UnixMilli(rc.Token.ExpiryDate),
			Strategy:     StrategyClasp,
		}
		if rc.Settings != nil {
			cred.ClientID = rc.Settings.ClientID
			cred.ClientSecret = rc.Settings.ClientSecret
		}
		cred.Identity = claspIdentity(rc.Token.IDToken)
		return cred, nil

	case len(rc.Tokens) > 0:
		token := rc.Tokens[DefaultIdentity]
		if token == nil {
			for _, t := range rc.Tokens {
				token = t
				break
			}
		}
		cred := &Credential{
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
			Expiry:       time.UnixMilli(token.ExpiryDate),
			ClientID:     token.ClientID,
			ClientSecret: token.ClientSecret,
			Strategy:     StrategyClasp,
		}
		cred.Identity = claspIdentity(token.IDToken)
		return cred, nil
	}

	return nil, fmt.Errorf("no token material in %s: %w", path, ErrNotFound)
}

func claspIdentity(idToken string) string {
	if email, ok := EmailFromIDToken(idToken); ok {
		return email
	}
	return DefaultIdentity
}

// claspStrategy wraps the externally managed clasp session. There is no
// browser handshake: Begin is a local confirmation and the refresh exchange
// uses the client registration clasp itself stored alongside the token.
type claspStrategy struct {
	endpoint oauth2.Endpoint
}

// NewClaspStrategy creates the CLI-session delegation strategy.
func NewClaspStrategy() Strategy {
	return &claspStrategy{endpoint: google.Endpoint}
}

func (s *claspStrategy) Kind() StrategyKind {
	return StrategyClasp
}

func (s *claspStrategy) AuthCodeURL(flow *PendingFlow) string {
	return ""
}

func (s *claspStrategy) Exchange(ctx context.Context, flow *PendingFlow, code string) (*Credential, error) {
	return nil, &ExchangeError{
		Strategy: StrategyClasp,
		Err:      fmt.Errorf("clasp delegation has no authorization code exchange; run `clasp login` instead"),
	}
}

func (s *claspStrategy) Refresh(ctx context.Context, cred *Credential) (*oauth2.Token, error) {
	if cred.RefreshToken == "" {
		return nil, fmt.Errorf("no refresh token available")
	}
	if cred.ClientID == "" {
		return nil, fmt.Errorf("clasp session has no client registration; run `clasp login` again")
	}

	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	conf := &oauth2.Config{
		ClientID:     cred.ClientID,
		ClientSecret: cred.ClientSecret,
		Endpoint:     s.endpoint,
	}
	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken})
	return ts.Token()
}
