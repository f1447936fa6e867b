package docs_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspacemcp/internal/docs"
	"github.com/teemow/workspacemcp/internal/server"
	"github.com/teemow/workspacemcp/internal/tools/common"
)

// RegisterDocsTools registers all Google Docs tools with the MCP server.
// Write operations are only registered when readOnly is false.
func RegisterDocsTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	searchTool := mcp.NewTool("search_docs",
		mcp.WithDescription("Search Google Docs documents by name"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Name fragment to search for"),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Maximum number of documents to return (default: 10)"),
		),
	)

	s.AddTool(searchTool, common.InstrumentedToolHandlerWithService(
		"search_docs", "docs", "search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchDocs(ctx, request, sc)
		}))

	getContentTool := mcp.NewTool("get_doc_content",
		mcp.WithDescription("Get the content of a Google Docs document as plain text"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the document to read"),
		),
	)

	s.AddTool(getContentTool, common.InstrumentedToolHandlerWithService(
		"get_doc_content", "docs", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetDocContent(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("create_doc",
		mcp.WithDescription("Create a new Google Docs document, optionally with initial content"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the new document"),
		),
		mcp.WithString("content",
			mcp.Description("Initial text content of the document"),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithService(
		"create_doc", "docs", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateDoc(ctx, request, sc)
		}))

	modifyTool := mcp.NewTool("modify_doc_text",
		mcp.WithDescription("Insert text at an index in a Google Docs document, or replace every occurrence of a text fragment"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the document to modify"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to insert, or the replacement text when replace_text is set"),
		),
		mcp.WithNumber("index",
			mcp.Description("Character index to insert at (default: 1, the start of the body)"),
		),
		mcp.WithString("replace_text",
			mcp.Description("When set, every occurrence of this text is replaced instead of inserting"),
		),
	)

	s.AddTool(modifyTool, common.InstrumentedToolHandlerWithService(
		"modify_doc_text", "docs", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleModifyDocText(ctx, request, sc)
		}))

	appendTool := mcp.NewTool("append_doc_text",
		mcp.WithDescription("Append text to the end of a Google Docs document"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the document to append to"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to append"),
		),
	)

	s.AddTool(appendTool, common.InstrumentedToolHandlerWithService(
		"append_doc_text", "docs", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAppendDocText(ctx, request, sc)
		}))

	return nil
}

func handleSearchDocs(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	pageSize := int64(10)
	if v, ok := args["page_size"].(float64); ok && v > 0 {
		pageSize = int64(v)
	}

	client, err := docs.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	documents, err := client.SearchDocs(ctx, query, pageSize)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search documents: %v", err)), nil
	}

	if len(documents) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No documents matched %q.", query)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d documents:\n", len(documents))
	for i, doc := range documents {
		fmt.Fprintf(&sb, "%d. %s (ID: %s, modified: %s)\n", i+1, doc.Title, doc.ID, doc.ModifiedTime)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleGetDocContent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	documentID, ok := args["document_id"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("document_id is required"), nil
	}

	client, err := docs.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	content, err := client.GetContent(ctx, documentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get document content: %v", err)), nil
	}

	return mcp.NewToolResultText(content), nil
}

func handleCreateDoc(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	content := ""
	if v, ok := args["content"].(string); ok {
		content = v
	}

	client, err := docs.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	doc, err := client.CreateDoc(ctx, title, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create document: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Document %q created. ID: %s", doc.Title, doc.DocumentId)), nil
}

func handleModifyDocText(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	documentID, ok := args["document_id"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("document_id is required"), nil
	}
	text, ok := args["text"].(string)
	if !ok || text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	index := int64(1)
	if v, ok := args["index"].(float64); ok && v > 0 {
		index = int64(v)
	}
	replaceText := ""
	if v, ok := args["replace_text"].(string); ok {
		replaceText = v
	}

	client, err := docs.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	if err := client.ModifyText(ctx, documentID, text, index, replaceText); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to modify document: %v", err)), nil
	}

	if replaceText != "" {
		return mcp.NewToolResultText(fmt.Sprintf("Replaced %q in document %s.", replaceText, documentID)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Text inserted at index %d in document %s.", index, documentID)), nil
}

func handleAppendDocText(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	documentID, ok := args["document_id"].(string)
	if !ok || documentID == "" {
		return mcp.NewToolResultError("document_id is required"), nil
	}
	text, ok := args["text"].(string)
	if !ok || text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	client, err := docs.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	if err := client.AppendText(ctx, documentID, text); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to append text: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Text appended to document %s.", documentID)), nil
}
