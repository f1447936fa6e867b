package auth

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// fakeStrategy is a controllable Strategy for tests. It counts exchanges
// and refreshes so tests can assert on exactly how many network round trips
// a scenario performs.
type fakeStrategy struct {
	kind StrategyKind

	mu            sync.Mutex
	exchangeCalls int
	refreshCalls  int
	lastCode      string

	exchangeCred *Credential
	exchangeErr  error
	refreshTok   *oauth2.Token
	refreshErr   error
	noAuthURL    bool
}

func (f *fakeStrategy) Kind() StrategyKind {
	return f.kind
}

func (f *fakeStrategy) AuthCodeURL(flow *PendingFlow) string {
	if f.noAuthURL {
		return ""
	}
	return fmt.Sprintf("https://accounts.example.com/o/oauth2/auth?state=%s", url.QueryEscape(flow.State))
}

func (f *fakeStrategy) Exchange(ctx context.Context, flow *PendingFlow, code string) (*Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exchangeCalls++
	f.lastCode = code

	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	if f.exchangeCred != nil {
		cred := *f.exchangeCred
		cred.Strategy = f.kind
		return &cred, nil
	}
	return &Credential{
		Identity:     "user@example.com",
		AccessToken:  "exchanged-access-token",
		RefreshToken: "exchanged-refresh-token",
		Expiry:       time.Now().Add(1 * time.Hour),
		Scopes:       flow.Scopes,
		Strategy:     f.kind,
	}, nil
}

func (f *fakeStrategy) Refresh(ctx context.Context, cred *Credential) (*oauth2.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++

	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	if f.refreshTok != nil {
		return f.refreshTok, nil
	}
	return &oauth2.Token{
		AccessToken: "refreshed-access-token",
		Expiry:      time.Now().Add(1 * time.Hour),
	}, nil
}

func (f *fakeStrategy) counts() (exchanges, refreshes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exchangeCalls, f.refreshCalls
}
