package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspacemcp/internal/auth"
	"github.com/teemow/workspacemcp/internal/server"
)

// RegisterAuthResources registers resources describing the authentication
// state: which accounts hold stored credentials and whether a clasp session
// is available. Token material is never included.
func RegisterAuthResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	accountsResource := mcp.NewResource(
		"auth://accounts",
		"Authenticated Accounts",
		mcp.WithResourceDescription("Google accounts with stored credentials and their token status"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(accountsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleAccounts(ctx, request, sc)
	})

	sessionResource := mcp.NewResource(
		"auth://clasp-session",
		"Clasp Session",
		mcp.WithResourceDescription("Whether a reusable clasp CLI session is available"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(sessionResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleClaspSession(ctx, request, sc)
	})

	return nil
}

type accountStatus struct {
	Identity   string    `json:"identity"`
	Strategy   string    `json:"strategy"`
	Expiry     time.Time `json:"expiry"`
	Usable     bool      `json:"usable"`
	CanRefresh bool      `json:"canRefresh"`
}

func handleAccounts(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	identities, err := sc.Store().List()
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accounts := make([]accountStatus, 0, len(identities))
	for _, identity := range identities {
		cred, err := sc.Store().Get(identity)
		if err != nil {
			if errors.Is(err, auth.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to read credential for %s: %w", identity, err)
		}
		accounts = append(accounts, accountStatus{
			Identity:   cred.Identity,
			Strategy:   string(cred.Strategy),
			Expiry:     cred.Expiry,
			Usable:     cred.Usable(auth.DefaultSkew),
			CanRefresh: cred.CanRefresh(),
		})
	}

	return jsonContents(request.Params.URI, map[string]interface{}{
		"accounts": accounts,
		"total":    len(accounts),
	})
}

func handleClaspSession(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	path := sc.ClaspRCPath()
	return jsonContents(request.Params.URI, map[string]interface{}{
		"path":      path,
		"available": auth.HasClaspSession(path),
	})
}

func jsonContents(uri string, data interface{}) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
