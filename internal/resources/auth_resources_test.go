package resources

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/workspacemcp/internal/auth"
	"github.com/teemow/workspacemcp/internal/server"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()

	dir := t.TempDir()
	sc, err := server.NewServerContext(context.Background(), server.Config{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		CredentialsDir:     dir,
		ClaspRCPath:        dir + "/.clasprc.json",
	})
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { sc.Shutdown() })
	return sc
}

func readResourceRequest(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func resourceText(t *testing.T, contents []mcp.ResourceContents) string {
	t.Helper()
	if len(contents) != 1 {
		t.Fatalf("expected one resource content, got %d", len(contents))
	}
	text, ok := contents[0].(*mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected text contents, got %T", contents[0])
	}
	return text.Text
}

func TestHandleAccounts_Empty(t *testing.T) {
	sc := newTestServerContext(t)

	contents, err := handleAccounts(context.Background(), readResourceRequest("auth://accounts"), sc)
	if err != nil {
		t.Fatalf("handleAccounts() error = %v", err)
	}

	var data struct {
		Accounts []accountStatus `json:"accounts"`
		Total    int             `json:"total"`
	}
	if err := json.Unmarshal([]byte(resourceText(t, contents)), &data); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if data.Total != 0 {
		t.Errorf("Total = %d, want 0", data.Total)
	}
}

func TestHandleAccounts_StoredCredential(t *testing.T) {
	sc := newTestServerContext(t)

	cred := &auth.Credential{
		Identity:     "user@example.com",
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(1 * time.Hour),
		Strategy:     auth.StrategyOAuth21,
	}
	if err := sc.Store().Save(cred.Identity, cred); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	contents, err := handleAccounts(context.Background(), readResourceRequest("auth://accounts"), sc)
	if err != nil {
		t.Fatalf("handleAccounts() error = %v", err)
	}

	text := resourceText(t, contents)

	var data struct {
		Accounts []accountStatus `json:"accounts"`
		Total    int             `json:"total"`
	}
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if data.Total != 1 {
		t.Fatalf("Total = %d, want 1", data.Total)
	}
	acct := data.Accounts[0]
	if acct.Identity != "user@example.com" {
		t.Errorf("Identity = %s, want user@example.com", acct.Identity)
	}
	if acct.Strategy != string(auth.StrategyOAuth21) {
		t.Errorf("Strategy = %s, want %s", acct.Strategy, auth.StrategyOAuth21)
	}
	if !acct.Usable {
		t.Error("Usable = false, want true")
	}
	if !acct.CanRefresh {
		t.Error("CanRefresh = false, want true")
	}

	// Token material must never leak into the resource.
	for _, secret := range []string{"access-token", "refresh-token"} {
		if strings.Contains(text, secret) {
			t.Errorf("resource contains secret %q", secret)
		}
	}
}

func TestHandleClaspSession_NoSession(t *testing.T) {
	sc := newTestServerContext(t)

	contents, err := handleClaspSession(context.Background(), readResourceRequest("auth://clasp-session"), sc)
	if err != nil {
		t.Fatalf("handleClaspSession() error = %v", err)
	}

	var data struct {
		Path      string `json:"path"`
		Available bool   `json:"available"`
	}
	if err := json.Unmarshal([]byte(resourceText(t, contents)), &data); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if data.Available {
		t.Error("Available = true, want false")
	}
	if data.Path == "" {
		t.Error("Path is empty")
	}
}
