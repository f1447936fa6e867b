package auth_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspacemcp/internal/auth"
	"github.com/teemow/workspacemcp/internal/instrumentation"
	"github.com/teemow/workspacemcp/internal/server"
	"github.com/teemow/workspacemcp/internal/tools/common"
)

// RegisterAuthTools registers the interactive authorization tools with the MCP server
func RegisterAuthTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	startAuthTool := mcp.NewTool("start_google_auth",
		mcp.WithDescription("Start the Google OAuth authorization flow for Google Workspace services (Gmail, Drive, Sheets, Calendar, Docs, Apps Script). Returns a URL to open in a browser."),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to authorize (optional, pre-fills the account chooser)"),
		),
	)

	s.AddTool(startAuthTool, common.InstrumentedToolHandler(
		"start_google_auth", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleStartGoogleAuth(ctx, request, sc)
		}))

	completeAuthTool := mcp.NewTool("complete_google_auth",
		mcp.WithDescription("Complete the Google OAuth authorization flow by passing the full redirect URL copied from the browser address bar after granting access."),
		mcp.WithString("redirect_url",
			mcp.Required(),
			mcp.Description("The full localhost URL the browser was redirected to, including the code and state parameters"),
		),
	)

	s.AddTool(completeAuthTool, common.InstrumentedToolHandler(
		"complete_google_auth", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCompleteGoogleAuth(ctx, request, sc)
		}))

	return nil
}

func handleStartGoogleAuth(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	identityHint := ""
	if email, ok := args["user_google_email"].(string); ok {
		identityHint = email
	}

	authURL, _, err := sc.Coordinator().Begin(identityHint, sc.FlowKind())
	if err != nil {
		recordFlowEvent(ctx, sc, instrumentation.FlowEventFailed)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to start authorization flow: %v", err)), nil
	}
	recordFlowEvent(ctx, sc, instrumentation.FlowEventBegun)

	if authURL == "" {
		// The clasp strategy delegates to an existing CLI session, there
		// is no browser handshake to perform.
		return mcp.NewToolResultText("An existing clasp CLI session is used for authentication. No browser authorization is needed; all tools are ready to use."), nil
	}

	result := fmt.Sprintf(`Google OAuth Authentication
============================

1. Open this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant access to the requested Google Workspace services
4. The browser will be redirected to a localhost URL that fails to load. That is expected; copy the full URL from the address bar.

5. Call complete_google_auth with the redirect URL to finish authentication.

The authorization expires after %s if not completed.`, authURL, auth.DefaultFlowTTL)

	return mcp.NewToolResultText(result), nil
}

func handleCompleteGoogleAuth(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	redirectURL, ok := args["redirect_url"].(string)
	if !ok || redirectURL == "" {
		return mcp.NewToolResultError("redirect_url is required"), nil
	}

	cred, err := sc.Coordinator().Complete(ctx, redirectURL)
	if err != nil {
		var invalid *auth.InvalidFlowError
		if errors.As(err, &invalid) {
			if invalid.Reason == "flow expired" {
				recordFlowEvent(ctx, sc, instrumentation.FlowEventExpired)
				return mcp.NewToolResultError("The authorization flow expired. Please run start_google_auth to try again."), nil
			}
			recordFlowEvent(ctx, sc, instrumentation.FlowEventFailed)
			return mcp.NewToolResultError(fmt.Sprintf("No pending authentication flow matches this redirect URL (%s). Please run start_google_auth first.", invalid.Reason)), nil
		}
		recordFlowEvent(ctx, sc, instrumentation.FlowEventFailed)
		return mcp.NewToolResultError(fmt.Sprintf("Authentication failed: %v\n\nPlease run start_google_auth to try again.", err)), nil
	}

	if err := sc.Store().Save(cred.Identity, cred); err != nil {
		recordFlowEvent(ctx, sc, instrumentation.FlowEventFailed)
		return mcp.NewToolResultError(fmt.Sprintf("Authentication succeeded but the credential could not be stored: %v", err)), nil
	}
	recordFlowEvent(ctx, sc, instrumentation.FlowEventCompleted)

	return mcp.NewToolResultText(fmt.Sprintf("Authentication successful for %s. All Google Workspace tools are ready to use with this account.", cred.Identity)), nil
}

func recordFlowEvent(ctx context.Context, sc *server.ServerContext, event string) {
	if m := sc.Metrics(); m != nil {
		m.RecordAuthFlow(ctx, event)
	}
}
