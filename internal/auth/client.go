package auth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// HTTPClient returns an HTTP client that authorizes requests with the
// resolved credential. Resolution already guaranteed freshness, so the
// token is used as-is rather than wrapped in a self-refreshing source;
// refresh stays the Refresher's job so updates are always persisted.
//
// The client is pinned to HTTP/1.1 to avoid HTTP/2 protocol errors seen
// with some Google API endpoints.
func HTTPClient(ctx context.Context, cred *Credential) *http.Client {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(cred.Token()))

	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	return client
}
