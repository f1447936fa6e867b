package auth_tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/workspacemcp/internal/auth"
	"github.com/teemow/workspacemcp/internal/server"
)

func newTestServerContext(t *testing.T, flowKind auth.StrategyKind) *server.ServerContext {
	t.Helper()

	dir := t.TempDir()
	sc, err := server.NewServerContext(context.Background(), server.Config{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		CredentialsDir:     dir,
		ClaspRCPath:        dir + "/.clasprc.json",
		FlowKind:           flowKind,
	})
	if err != nil {
		t.Fatalf("failed to create server context: %v", err)
	}
	t.Cleanup(func() { sc.Shutdown() })
	return sc
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestHandleStartGoogleAuth(t *testing.T) {
	sc := newTestServerContext(t, "")

	result, err := handleStartGoogleAuth(context.Background(), callRequest(map[string]interface{}{
		"user_google_email": "user@example.com",
	}), sc)
	if err != nil {
		t.Fatalf("handleStartGoogleAuth returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error result: %s", textContent(t, result))
	}

	text := textContent(t, result)
	if !strings.Contains(text, "accounts.google.com") {
		t.Errorf("expected authorization URL in result, got %q", text)
	}
	if !strings.Contains(text, "complete_google_auth") {
		t.Errorf("expected completion instructions in result, got %q", text)
	}

	// The default flow uses PKCE, the URL must carry a challenge
	if !strings.Contains(text, "code_challenge") {
		t.Errorf("expected PKCE challenge in authorization URL, got %q", text)
	}

	if sc.Coordinator().PendingCount() != 1 {
		t.Errorf("expected 1 pending flow, got %d", sc.Coordinator().PendingCount())
	}
}

func TestHandleStartGoogleAuth_Clasp(t *testing.T) {
	sc := newTestServerContext(t, auth.StrategyClasp)

	result, err := handleStartGoogleAuth(context.Background(), callRequest(nil), sc)
	if err != nil {
		t.Fatalf("handleStartGoogleAuth returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error result: %s", textContent(t, result))
	}

	text := textContent(t, result)
	if !strings.Contains(text, "clasp") {
		t.Errorf("expected clasp session message, got %q", text)
	}
	if sc.Coordinator().PendingCount() != 0 {
		t.Errorf("clasp flow must not register pending flows, got %d", sc.Coordinator().PendingCount())
	}
}

func TestHandleCompleteGoogleAuth_MissingRedirectURL(t *testing.T) {
	sc := newTestServerContext(t, "")

	result, err := handleCompleteGoogleAuth(context.Background(), callRequest(nil), sc)
	if err != nil {
		t.Fatalf("handleCompleteGoogleAuth returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing redirect_url")
	}
}

func TestHandleCompleteGoogleAuth_NoPendingFlow(t *testing.T) {
	sc := newTestServerContext(t, "")

	result, err := handleCompleteGoogleAuth(context.Background(), callRequest(map[string]interface{}{
		"redirect_url": "http://localhost/?code=abc&state=unknown-state",
	}), sc)
	if err != nil {
		t.Fatalf("handleCompleteGoogleAuth returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for unknown state")
	}

	text := textContent(t, result)
	if !strings.Contains(text, "start_google_auth") {
		t.Errorf("expected pointer to start_google_auth, got %q", text)
	}
}

func TestHandleCompleteGoogleAuth_ProviderDenied(t *testing.T) {
	sc := newTestServerContext(t, "")

	startResult, err := handleStartGoogleAuth(context.Background(), callRequest(nil), sc)
	if err != nil || startResult.IsError {
		t.Fatalf("failed to start flow: %v", err)
	}

	state := stateFromAuthURL(t, textContent(t, startResult))

	result, err := handleCompleteGoogleAuth(context.Background(), callRequest(map[string]interface{}{
		"redirect_url": "http://localhost/?error=access_denied&state=" + state,
	}), sc)
	if err != nil {
		t.Fatalf("handleCompleteGoogleAuth returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result when the provider denies access")
	}

	text := textContent(t, result)
	if !strings.Contains(text, "Authentication failed") {
		t.Errorf("expected authentication failure message, got %q", text)
	}

	// The flow is consumed, a replay must not find it
	if sc.Coordinator().PendingCount() != 0 {
		t.Errorf("expected flow to be consumed, %d still pending", sc.Coordinator().PendingCount())
	}
}

// stateFromAuthURL digs the state parameter out of the instruction text
// returned by start_google_auth.
func stateFromAuthURL(t *testing.T, text string) string {
	t.Helper()

	idx := strings.Index(text, "state=")
	if idx < 0 {
		t.Fatalf("no state parameter in %q", text)
	}
	state := text[idx+len("state="):]
	for i, r := range state {
		if r == '&' || r == '\n' || r == ' ' {
			return state[:i]
		}
	}
	return state
}
