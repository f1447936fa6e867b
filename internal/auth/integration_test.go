package auth

import (
	"context"
	"net/url"
	"testing"
	"time"
)

// TestAuthorizeAndResolve walks the full lifecycle against a fake token
// endpoint: begin an interactive flow, complete it with the redirect URL,
// persist the credential, then resolve it repeatedly without touching the
// network again.
func TestAuthorizeAndResolve(t *testing.T) {
	te := newTokenEndpoint(t)
	strategy := te.strategy(StrategyOAuth21)
	strategies := map[StrategyKind]Strategy{StrategyOAuth21: strategy}

	coordinator := NewCoordinator(strategies, nil)
	defer coordinator.Close()

	store := NewFileStore(t.TempDir(), nil)
	refresher := NewRefresher(store, strategies, nil)
	resolver := NewResolverWithSession(store, refresher, nil, nil)

	authURL, flow, err := coordinator.Begin("user@example.com", StrategyOAuth21)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("url.Parse(%s) error = %v", authURL, err)
	}
	if got := parsed.Query().Get("state"); got != flow.State {
		t.Fatalf("authorization URL state = %s, want %s", got, flow.State)
	}

	redirect := "http://localhost:8080/oauth2callback?state=" + url.QueryEscape(flow.State) + "&code=auth-code"
	cred, err := coordinator.Complete(context.Background(), redirect)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if cred.Identity != "user@example.com" {
		t.Fatalf("Identity = %s, want the identity hint", cred.Identity)
	}
	if cred.Strategy != StrategyOAuth21 {
		t.Errorf("Strategy = %s, want %s", cred.Strategy, StrategyOAuth21)
	}

	// Persisting is the caller's job after a completed flow.
	if err := store.Save(cred.Identity, cred); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	te.lastForm = nil
	for i := 0; i < 3; i++ {
		resolved, err := resolver.Resolve(context.Background(), "user@example.com")
		if err != nil {
			t.Fatalf("Resolve() #%d error = %v", i, err)
		}
		if resolved.AccessToken != cred.AccessToken {
			t.Errorf("Resolve() #%d AccessToken = %s, want %s", i, resolved.AccessToken, cred.AccessToken)
		}
	}
	if te.lastForm != nil {
		t.Error("resolving a fresh credential must not hit the token endpoint")
	}
}

// TestAuthorizeExpireResolve continues past expiry: once the stored
// credential goes stale, the next resolve performs exactly one refresh
// exchange and the replacement is visible to later resolves.
func TestAuthorizeExpireResolve(t *testing.T) {
	te := newTokenEndpoint(t)
	strategy := te.strategy(StrategyOAuth2)
	strategies := map[StrategyKind]Strategy{StrategyOAuth2: strategy}

	store := NewFileStore(t.TempDir(), nil)
	refresher := NewRefresher(store, strategies, nil)
	resolver := NewResolverWithSession(store, refresher, nil, nil)

	cred := testCredential("user@example.com")
	cred.AccessToken = "stale-access-token"
	cred.Expiry = time.Now().Add(-time.Minute)
	if err := store.Save(cred.Identity, cred); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	resolved, err := resolver.Resolve(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.AccessToken != "test-access-token" {
		t.Errorf("AccessToken = %s, want the refreshed token", resolved.AccessToken)
	}
	if got := te.lastForm.Get("grant_type"); got != "refresh_token" {
		t.Errorf("grant_type = %s, want refresh_token", got)
	}

	// The refreshed credential is persisted, so resolving again is local.
	te.lastForm = nil
	again, err := resolver.Resolve(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if again.AccessToken != "test-access-token" {
		t.Errorf("AccessToken = %s, want the refreshed token", again.AccessToken)
	}
	if te.lastForm != nil {
		t.Error("second resolve must not hit the token endpoint")
	}
}

// TestClaspBeginIsLocal confirms clasp delegation never produces a browser
// handshake or a pending flow.
func TestClaspBeginIsLocal(t *testing.T) {
	strategies := map[StrategyKind]Strategy{StrategyClasp: NewClaspStrategy()}
	coordinator := NewCoordinator(strategies, nil)
	defer coordinator.Close()

	authURL, flow, err := coordinator.Begin("", StrategyClasp)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if authURL != "" {
		t.Errorf("Begin() authURL = %s, want empty", authURL)
	}
	if flow == nil {
		t.Fatal("Begin() flow = nil")
	}
	if coordinator.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d, want 0", coordinator.PendingCount())
	}
}
