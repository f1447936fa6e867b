package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/workspacemcp/internal/auth"
	"github.com/teemow/workspacemcp/internal/instrumentation"
	"github.com/teemow/workspacemcp/internal/server"
)

// CheckClientError records the credential resolution outcome of a service
// client construction attempt and, when it failed, converts the error into
// a tool result the caller returns directly. A nil return means the client
// is usable.
func CheckClientError(ctx context.Context, sc *server.ServerContext, identity string, err error) *mcp.CallToolResult {
	if m := sc.Metrics(); m != nil {
		m.RecordAuthResolve(ctx, resolveResult(err))
	}
	if err == nil {
		return nil
	}

	var reauth *auth.ReauthRequiredError
	if errors.As(err, &reauth) {
		return mcp.NewToolResultError(fmt.Sprintf(`No valid credentials for %q: %s.

Run the start_google_auth tool to authorize access, then pass the redirect URL to complete_google_auth. You only need to authorize once; tokens are refreshed automatically.`, identity, reauth.Reason))
	}
	return mcp.NewToolResultError(fmt.Sprintf("Failed to create client for %q: %v", identity, err))
}

func resolveResult(err error) string {
	if err == nil {
		return instrumentation.AuthResultSuccess
	}
	var reauth *auth.ReauthRequiredError
	if errors.As(err, &reauth) {
		return instrumentation.AuthResultReauthNeeded
	}
	return instrumentation.AuthResultFailure
}
