package docs_tools

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

func TestHandleSearchDocs_MissingQuery(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleSearchDocs(context.Background(), callRequest(nil), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing query")
	}
}

func TestHandleGetDocContent_NoCredentials(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleGetDocContent(context.Background(), callRequest(map[string]interface{}{
		"document_id": "doc-1",
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

func TestHandleCreateDoc_MissingTitle(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleCreateDoc(context.Background(), callRequest(nil), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing title")
	}
}

func TestHandleModifyDocText_MissingText(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleModifyDocText(context.Background(), callRequest(map[string]interface{}{
		"document_id": "doc-1",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing text")
	}
}

func TestHandleAppendDocText_MissingDocumentID(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleAppendDocText(context.Background(), callRequest(map[string]interface{}{
		"text": "hello",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing document_id")
	}
}
