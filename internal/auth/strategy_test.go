package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"golang.org/x/oauth2"
)

func testClientConfig() ClientConfig {
	return ClientConfig{
		ClientID:     "client-id.apps.googleusercontent.com",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/oauth2callback",
		Scopes:       []string{"openid", "email"},
	}
}

func testFlow(state string, strategy StrategyKind) *PendingFlow {
	flow := &PendingFlow{
		State:    state,
		Scopes:   []string{"openid", "email"},
		Strategy: strategy,
	}
	if strategy == StrategyOAuth21 {
		verifier, err := GenerateCodeVerifier()
		if err != nil {
			panic(err)
		}
		flow.CodeVerifier = verifier
	}
	return flow
}

func TestAuthCodeURL_OAuth2(t *testing.T) {
	strategy := NewOAuth2Strategy(testClientConfig())
	flow := testFlow("state-abc", StrategyOAuth2)

	authURL := strategy.AuthCodeURL(flow)
	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("url.Parse(%s) error = %v", authURL, err)
	}

	query := parsed.Query()
	if got := query.Get("state"); got != "state-abc" {
		t.Errorf("state = %s, want state-abc", got)
	}
	if got := query.Get("access_type"); got != "offline" {
		t.Errorf("access_type = %s, want offline", got)
	}
	// oauth2.ApprovalForce forces the consent screen so Google returns a
	// refresh token.
	if got := query.Get("prompt"); got != "consent" {
		t.Errorf("prompt = %s, want consent", got)
	}
	if query.Has("code_challenge") {
		t.Error("OAuth 2.0 authorization URL must not carry a PKCE challenge")
	}
}

func TestAuthCodeURL_OAuth21CarriesPKCEChallenge(t *testing.T) {
	strategy := NewOAuth21Strategy(testClientConfig())
	flow := testFlow("state-abc", StrategyOAuth21)

	parsed, err := url.Parse(strategy.AuthCodeURL(flow))
	if err != nil {
		t.Fatalf("url.Parse() error = %v", err)
	}

	query := parsed.Query()
	if got := query.Get("code_challenge_method"); got != "S256" {
		t.Errorf("code_challenge_method = %s, want S256", got)
	}
	if got, want := query.Get("code_challenge"), GenerateCodeChallenge(flow.CodeVerifier); got != want {
		t.Errorf("code_challenge = %s, want %s", got, want)
	}
	if got := query.Get("prompt"); got != "consent" {
		t.Errorf("prompt = %s, want consent", got)
	}
}

// tokenEndpoint fakes Google's token endpoint and records the form
// parameters of the last request.
type tokenEndpoint struct {
	srv      *httptest.Server
	lastForm url.Values
	fail     bool
}

func newTokenEndpoint(t *testing.T) *tokenEndpoint {
	t.Helper()
	te := &tokenEndpoint{}
	te.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		te.lastForm = r.PostForm
		if te.fail {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"test-access-token","refresh_token":"test-refresh-token","token_type":"Bearer","expires_in":3600}`)
	}))
	t.Cleanup(te.srv.Close)
	return te
}

func (te *tokenEndpoint) strategy(kind StrategyKind) *codeStrategy {
	return &codeStrategy{
		kind: kind,
		cfg:  testClientConfig(),
		endpoint: oauth2.Endpoint{
			AuthURL:   te.srv.URL + "/auth",
			TokenURL:  te.srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams, // matches Google's endpoint
		},
	}
}

func TestExchange_OAuth2(t *testing.T) {
	te := newTokenEndpoint(t)
	strategy := te.strategy(StrategyOAuth2)
	flow := testFlow("state-abc", StrategyOAuth2)
	flow.IdentityHint = "user@example.com"

	cred, err := strategy.Exchange(context.Background(), flow, "auth-code")
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}

	if cred.AccessToken != "test-access-token" {
		t.Errorf("AccessToken = %s, want test-access-token", cred.AccessToken)
	}
	if cred.RefreshToken != "test-refresh-token" {
		t.Errorf("RefreshToken = %s, want test-refresh-token", cred.RefreshToken)
	}
	if cred.Strategy != StrategyOAuth2 {
		t.Errorf("Strategy = %s, want %s", cred.Strategy, StrategyOAuth2)
	}
	if cred.Identity != "user@example.com" {
		t.Errorf("Identity = %s, want the flow's identity hint", cred.Identity)
	}
	if cred.ClientID != "client-id.apps.googleusercontent.com" {
		t.Errorf("ClientID = %s, want the strategy's client", cred.ClientID)
	}
	if te.lastForm.Has("code_verifier") {
		t.Error("OAuth 2.0 exchange must not carry a PKCE verifier")
	}
}

func TestExchange_OAuth21CarriesVerifier(t *testing.T) {
	te := newTokenEndpoint(t)
	strategy := te.strategy(StrategyOAuth21)
	flow := testFlow("state-abc", StrategyOAuth21)

	if _, err := strategy.Exchange(context.Background(), flow, "auth-code"); err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}

	if got := te.lastForm.Get("code_verifier"); got != flow.CodeVerifier {
		t.Errorf("code_verifier = %s, want %s", got, flow.CodeVerifier)
	}
}

func TestExchange_ProviderRejectionWrapsExchangeError(t *testing.T) {
	te := newTokenEndpoint(t)
	te.fail = true
	strategy := te.strategy(StrategyOAuth2)

	_, err := strategy.Exchange(context.Background(), testFlow("s", StrategyOAuth2), "bad-code")
	var exchangeErr *ExchangeError
	if !errors.As(err, &exchangeErr) {
		t.Fatalf("Exchange() error = %v, want *ExchangeError", err)
	}
	if exchangeErr.Strategy != StrategyOAuth2 {
		t.Errorf("Strategy = %s, want %s", exchangeErr.Strategy, StrategyOAuth2)
	}
}

func TestRefresh_SendsRefreshGrant(t *testing.T) {
	te := newTokenEndpoint(t)
	strategy := te.strategy(StrategyOAuth2)

	cred := testCredential("user@example.com")
	token, err := strategy.Refresh(context.Background(), cred)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if token.AccessToken != "test-access-token" {
		t.Errorf("AccessToken = %s, want test-access-token", token.AccessToken)
	}
	if got := te.lastForm.Get("grant_type"); got != "refresh_token" {
		t.Errorf("grant_type = %s, want refresh_token", got)
	}
	if got := te.lastForm.Get("refresh_token"); got != cred.RefreshToken {
		t.Errorf("refresh_token = %s, want %s", got, cred.RefreshToken)
	}
}

func TestRefresh_PrefersCredentialClient(t *testing.T) {
	te := newTokenEndpoint(t)
	strategy := te.strategy(StrategyOAuth2)

	cred := testCredential("user@example.com")
	cred.ClientID = "rotated-client-id"
	cred.ClientSecret = "rotated-client-secret"

	if _, err := strategy.Refresh(context.Background(), cred); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if got := te.lastForm.Get("client_id"); got != "rotated-client-id" {
		t.Errorf("client_id = %s, want the credential's own client", got)
	}
}

func TestRefresh_NoRefreshTokenFailsFast(t *testing.T) {
	strategy := NewOAuth2Strategy(testClientConfig())
	cred := testCredential("user@example.com")
	cred.RefreshToken = ""

	if _, err := strategy.Refresh(context.Background(), cred); err == nil {
		t.Fatal("Refresh() with no refresh token should fail without a network call")
	}
}
