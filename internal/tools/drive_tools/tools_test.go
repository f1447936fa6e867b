package drive_tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

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

func resultText(t *testing.T, result *mcp.CallToolResult) string {
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

func TestHandleSearchFiles_MissingQuery(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleSearchFiles(context.Background(), callRequest(nil), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing query")
	}
}

func TestHandleSearchFiles_NoCredentials(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleSearchFiles(context.Background(), callRequest(map[string]interface{}{
		"query": "name contains 'report'",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result without stored credentials")
	}
	if !strings.Contains(resultText(t, result), "start_google_auth") {
		t.Errorf("expected pointer to start_google_auth, got %q", resultText(t, result))
	}
}

func TestHandleGetFileContent_MissingFileID(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleGetFileContent(context.Background(), callRequest(nil), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing file_id")
	}
}

func TestHandleCreateFile_MissingName(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleCreateFile(context.Background(), callRequest(map[string]interface{}{
		"content": "hello",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing file_name")
	}
}

func TestHandleTrashFile_MissingFileIDs(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleTrashFile(context.Background(), callRequest(nil), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing file_ids")
	}
}

func TestHandleShareFile_MissingEmail(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleShareFile(context.Background(), callRequest(map[string]interface{}{
		"file_id": "file-1",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing email")
	}
}

func TestHandleRemovePermission_MissingPermissionID(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleRemovePermission(context.Background(), callRequest(map[string]interface{}{
		"file_id": "file-1",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing permission_id")
	}
}
