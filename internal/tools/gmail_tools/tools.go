package gmail_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspacemcp/internal/gmail"
	"github.com/teemow/workspacemcp/internal/server"
	"github.com/teemow/workspacemcp/internal/tools/batch"
	"github.com/teemow/workspacemcp/internal/tools/common"
)

// RegisterGmailTools registers all Gmail-related tools with the MCP server.
// Write operations are only registered when readOnly is false.
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	searchTool := mcp.NewTool("search_gmail_messages",
		mcp.WithDescription("Search Gmail messages using Gmail query syntax (e.g., 'from:user@example.com is:unread')"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Gmail search query (e.g., 'in:inbox', 'subject:invoice newer_than:7d')"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of messages to return (default: 10)"),
		),
	)

	s.AddTool(searchTool, common.InstrumentedToolHandlerWithService(
		"search_gmail_messages", "gmail", "search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchMessages(ctx, request, sc)
		}))

	getTool := mcp.NewTool("get_gmail_message",
		mcp.WithDescription("Get a Gmail message by ID, including headers and the decoded text body"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The ID of the message to retrieve"),
		),
		mcp.WithString("format",
			mcp.Description("Message detail level: full, metadata or minimal (default: full)"),
		),
	)

	s.AddTool(getTool, common.InstrumentedToolHandlerWithService(
		"get_gmail_message", "gmail", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetMessage(ctx, request, sc)
		}))

	listLabelsTool := mcp.NewTool("list_gmail_labels",
		mcp.WithDescription("List all labels in the Gmail mailbox, system and user-created"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
	)

	s.AddTool(listLabelsTool, common.InstrumentedToolHandlerWithService(
		"list_gmail_labels", "gmail", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListLabels(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	sendTool := mcp.NewTool("send_gmail_message",
		mcp.WithDescription("Send an email from the authenticated Gmail account"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient email addresses, comma-separated"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject line"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Email body text"),
		),
		mcp.WithString("cc",
			mcp.Description("CC email addresses, comma-separated"),
		),
		mcp.WithString("bcc",
			mcp.Description("BCC email addresses, comma-separated"),
		),
		mcp.WithBoolean("html",
			mcp.Description("Send the body as HTML instead of plain text (default: false)"),
		),
	)

	s.AddTool(sendTool, common.InstrumentedToolHandlerWithService(
		"send_gmail_message", "gmail", "send", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSendMessage(ctx, request, sc)
		}))

	modifyLabelsTool := mcp.NewTool("modify_gmail_labels",
		mcp.WithDescription("Add or remove labels on one or more Gmail messages (e.g., remove INBOX to archive)"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("message_ids",
			mcp.Required(),
			mcp.Description("A single message ID or a JSON array of message IDs to modify"),
		),
		mcp.WithString("add_labels",
			mcp.Description("Label IDs to add, comma-separated (e.g., 'STARRED,IMPORTANT')"),
		),
		mcp.WithString("remove_labels",
			mcp.Description("Label IDs to remove, comma-separated (e.g., 'INBOX,UNREAD')"),
		),
	)

	s.AddTool(modifyLabelsTool, common.InstrumentedToolHandlerWithService(
		"modify_gmail_labels", "gmail", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleModifyLabels(ctx, request, sc)
		}))

	return nil
}

func handleSearchMessages(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	maxResults := int64(10)
	if v, ok := args["max_results"].(float64); ok && v > 0 {
		maxResults = int64(v)
	}

	client, err := gmail.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	messages, err := client.SearchMessages(ctx, query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search messages: %v", err)), nil
	}

	if len(messages) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No messages matched query %q.", query)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d messages:\n", len(messages))
	for i, msg := range messages {
		fmt.Fprintf(&sb, "%d. ID: %s | From: %s | Subject: %s | Date: %s\n   Snippet: %s\n",
			i+1, msg.ID, msg.From, msg.Subject, msg.Date, msg.Snippet)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleGetMessage(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	messageID, ok := args["message_id"].(string)
	if !ok || messageID == "" {
		return mcp.NewToolResultError("message_id is required"), nil
	}

	format := "full"
	if v, ok := args["format"].(string); ok && v != "" {
		format = v
	}

	client, err := gmail.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	msg, err := client.GetMessage(ctx, messageID, format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get message: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Message ID: %s\nThread ID: %s\n", msg.Id, msg.ThreadId)
	fmt.Fprintf(&sb, "From: %s\n", gmail.HeaderValue(msg, "From"))
	fmt.Fprintf(&sb, "To: %s\n", gmail.HeaderValue(msg, "To"))
	fmt.Fprintf(&sb, "Date: %s\n", gmail.HeaderValue(msg, "Date"))
	fmt.Fprintf(&sb, "Subject: %s\n", gmail.HeaderValue(msg, "Subject"))
	fmt.Fprintf(&sb, "Labels: %s\n", strings.Join(msg.LabelIds, ", "))

	if format == "full" {
		if body := gmail.ExtractBody(msg); body != "" {
			fmt.Fprintf(&sb, "\n%s\n", body)
		} else if msg.Snippet != "" {
			fmt.Fprintf(&sb, "\nSnippet: %s\n", msg.Snippet)
		}
	} else if msg.Snippet != "" {
		fmt.Fprintf(&sb, "Snippet: %s\n", msg.Snippet)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleListLabels(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	client, err := gmail.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	labels, err := client.ListLabels(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list labels: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d labels:\n", len(labels))
	for _, label := range labels {
		fmt.Fprintf(&sb, "- %s (ID: %s, type: %s)\n", label.Name, label.Id, label.Type)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleSendMessage(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	to, ok := args["to"].(string)
	if !ok || to == "" {
		return mcp.NewToolResultError("to is required"), nil
	}
	subject, ok := args["subject"].(string)
	if !ok || subject == "" {
		return mcp.NewToolResultError("subject is required"), nil
	}
	body, ok := args["body"].(string)
	if !ok || body == "" {
		return mcp.NewToolResultError("body is required"), nil
	}

	msg := &gmail.OutgoingMessage{
		To:      gmail.SplitRecipients(to),
		Subject: subject,
		Body:    body,
	}
	if cc, ok := args["cc"].(string); ok {
		msg.Cc = gmail.SplitRecipients(cc)
	}
	if bcc, ok := args["bcc"].(string); ok {
		msg.Bcc = gmail.SplitRecipients(bcc)
	}
	if html, ok := args["html"].(bool); ok {
		msg.IsHTML = html
	}

	client, err := gmail.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	sentID, err := client.SendMessage(ctx, msg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send message: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Message sent successfully. Message ID: %s", sentID)), nil
}

func handleModifyLabels(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	messageIDs, err := batch.ParseStringOrArray(args["message_ids"], "message_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	addLabels := splitLabels(args["add_labels"])
	removeLabels := splitLabels(args["remove_labels"])
	if len(addLabels) == 0 && len(removeLabels) == 0 {
		return mcp.NewToolResultError("at least one of add_labels or remove_labels is required"), nil
	}

	client, err := gmail.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	results := batch.ProcessBatch(messageIDs, func(id string) (string, error) {
		msg, err := client.ModifyLabels(ctx, id, addLabels, removeLabels)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Labels now: %s", strings.Join(msg.LabelIds, ", ")), nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

// splitLabels splits a comma-separated label ID argument, dropping empty
// entries
func splitLabels(v interface{}) []string {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			out = append(out, id)
		}
	}
	return out
}
