package sheets_tools

import (
	"context"
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

func TestParseValues_JSONString(t *testing.T) {
	rows, err := parseValues(`[["a", "b"], [1, 2]]`)
	if err != nil {
		t.Fatalf("parseValues returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "a" {
		t.Errorf("expected first cell 'a', got %v", rows[0][0])
	}
	if rows[1][1] != float64(2) {
		t.Errorf("expected cell 2, got %v", rows[1][1])
	}
}

func TestParseValues_NestedArray(t *testing.T) {
	rows, err := parseValues([]interface{}{
		[]interface{}{"x", "y"},
	})
	if err != nil {
		t.Fatalf("parseValues returned error: %v", err)
	}
	if len(rows) != 1 || len(rows[0]) != 2 {
		t.Fatalf("expected 1 row of 2 cells, got %v", rows)
	}
}

func TestParseValues_Invalid(t *testing.T) {
	tests := []struct {
		name string
		arg  interface{}
	}{
		{"missing", nil},
		{"empty string", ""},
		{"not json", "not-json"},
		{"flat array", []interface{}{"a", "b"}},
		{"empty rows", "[]"},
		{"wrong type", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseValues(tt.arg); err == nil {
				t.Errorf("parseValues(%v) expected error", tt.arg)
			}
		})
	}
}

func TestHandleGetValues_MissingSpreadsheetID(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleGetValues(context.Background(), callRequest(nil), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing spreadsheet_id")
	}
}

func TestHandleUpdateValues_InvalidValues(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleUpdateValues(context.Background(), callRequest(map[string]interface{}{
		"spreadsheet_id": "sheet-1",
		"range":          "Sheet1!A1",
		"values":         "not-json",
	}), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for malformed values")
	}
}

func TestHandleCreateSpreadsheet_MissingTitle(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleCreateSpreadsheet(context.Background(), callRequest(nil), sc)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing title")
	}
}
