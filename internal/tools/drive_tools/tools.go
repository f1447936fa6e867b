package drive_tools

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspacemcp/internal/drive"
	"github.com/teemow/workspacemcp/internal/server"
	"github.com/teemow/workspacemcp/internal/tools/batch"
	"github.com/teemow/workspacemcp/internal/tools/common"
)

// RegisterDriveTools registers all Google Drive tools with the MCP server.
// Write operations are only registered when readOnly is false.
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	searchTool := mcp.NewTool("search_drive_files",
		mcp.WithDescription("Search Google Drive files using Drive query syntax (e.g., \"name contains 'report'\")"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Drive search query (e.g., \"name contains 'budget' and mimeType = 'application/pdf'\")"),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Maximum number of files to return (default: 10)"),
		),
	)

	s.AddTool(searchTool, common.InstrumentedToolHandlerWithService(
		"search_drive_files", "drive", "search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchFiles(ctx, request, sc)
		}))

	listTool := mcp.NewTool("list_drive_items",
		mcp.WithDescription("List files and folders inside a Google Drive folder"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("folder_id",
			mcp.Description("The ID of the folder to list (default: 'root')"),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Maximum number of items to return (default: 50)"),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandlerWithService(
		"list_drive_items", "drive", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListItems(ctx, request, sc)
		}))

	getContentTool := mcp.NewTool("get_drive_file_content",
		mcp.WithDescription("Get the content of a Google Drive file. Google editor files (Docs, Sheets, Slides) are exported to text formats."),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file to read"),
		),
	)

	s.AddTool(getContentTool, common.InstrumentedToolHandlerWithService(
		"get_drive_file_content", "drive", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetFileContent(ctx, request, sc)
		}))

	listPermissionsTool := mcp.NewTool("list_drive_permissions",
		mcp.WithDescription("List the sharing permissions on a Google Drive file"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file"),
		),
	)

	s.AddTool(listPermissionsTool, common.InstrumentedToolHandlerWithService(
		"list_drive_permissions", "drive", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListPermissions(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createFileTool := mcp.NewTool("create_drive_file",
		mcp.WithDescription("Create a new file in Google Drive with text content"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("file_name",
			mcp.Required(),
			mcp.Description("Name for the new file"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Text content of the file"),
		),
		mcp.WithString("folder_id",
			mcp.Description("ID of the parent folder (default: 'root')"),
		),
		mcp.WithString("mime_type",
			mcp.Description("MIME type of the file (default: 'text/plain')"),
		),
	)

	s.AddTool(createFileTool, common.InstrumentedToolHandlerWithService(
		"create_drive_file", "drive", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateFile(ctx, request, sc)
		}))

	createFolderTool := mcp.NewTool("create_drive_folder",
		mcp.WithDescription("Create a new folder in Google Drive"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("folder_name",
			mcp.Required(),
			mcp.Description("Name for the new folder"),
		),
		mcp.WithString("parent_folder_id",
			mcp.Description("ID of the parent folder (default: 'root')"),
		),
	)

	s.AddTool(createFolderTool, common.InstrumentedToolHandlerWithService(
		"create_drive_folder", "drive", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateFolder(ctx, request, sc)
		}))

	trashTool := mcp.NewTool("trash_drive_file",
		mcp.WithDescription("Move one or more Google Drive files to the trash. Trashed files can be restored later."),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("file_ids",
			mcp.Required(),
			mcp.Description("A single file ID or a JSON array of file IDs to trash"),
		),
	)

	s.AddTool(trashTool, common.InstrumentedToolHandlerWithService(
		"trash_drive_file", "drive", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleTrashFile(ctx, request, sc)
		}))

	deleteTool := mcp.NewTool("delete_drive_file",
		mcp.WithDescription("Permanently delete a Google Drive file, skipping the trash. WARNING: this cannot be undone; prefer trash_drive_file unless permanent deletion is intended."),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file to delete permanently"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService(
		"delete_drive_file", "drive", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteFile(ctx, request, sc)
		}))

	shareTool := mcp.NewTool("share_drive_file",
		mcp.WithDescription("Share a Google Drive file with a user by email address"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file to share"),
		),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Email address of the user to share with"),
		),
		mcp.WithString("role",
			mcp.Description("Role to grant: reader, commenter or writer (default: reader)"),
		),
		mcp.WithBoolean("send_notification",
			mcp.Description("Send a notification email to the user (default: true)"),
		),
	)

	s.AddTool(shareTool, common.InstrumentedToolHandlerWithService(
		"share_drive_file", "drive", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleShareFile(ctx, request, sc)
		}))

	removePermissionTool := mcp.NewTool("remove_drive_permission",
		mcp.WithDescription("Remove a sharing permission from a Google Drive file"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file"),
		),
		mcp.WithString("permission_id",
			mcp.Required(),
			mcp.Description("The ID of the permission to remove (see list_drive_permissions)"),
		),
	)

	s.AddTool(removePermissionTool, common.InstrumentedToolHandlerWithService(
		"remove_drive_permission", "drive", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRemovePermission(ctx, request, sc)
		}))

	return nil
}

func handleSearchFiles(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
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

	client, err := drive.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	files, err := client.SearchFiles(ctx, query, pageSize)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search files: %v", err)), nil
	}

	if len(files) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No files matched query %q.", query)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d files:\n", len(files))
	for i, f := range files {
		fmt.Fprintf(&sb, "%d. %s (ID: %s, type: %s, modified: %s)\n",
			i+1, f.Name, f.ID, f.MimeType, f.ModifiedTime.Format("2006-01-02 15:04"))
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleListItems(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	folderID := "root"
	if v, ok := args["folder_id"].(string); ok && v != "" {
		folderID = v
	}

	pageSize := int64(50)
	if v, ok := args["page_size"].(float64); ok && v > 0 {
		pageSize = int64(v)
	}

	client, err := drive.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	items, err := client.ListItems(ctx, folderID, pageSize)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list folder %s: %v", folderID, err)), nil
	}

	if len(items) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Folder %s is empty.", folderID)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d items in folder %s:\n", len(items), folderID)
	for i, f := range items {
		kind := "file"
		if f.MimeType == drive.FolderMimeType {
			kind = "folder"
		}
		fmt.Fprintf(&sb, "%d. [%s] %s (ID: %s)\n", i+1, kind, f.Name, f.ID)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleGetFileContent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	fileID, ok := args["file_id"].(string)
	if !ok || fileID == "" {
		return mcp.NewToolResultError("file_id is required"), nil
	}

	client, err := drive.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	content, err := client.GetFileContent(ctx, fileID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get file content: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "File: %s (type: %s", content.Name, content.MimeType)
	if content.Exported {
		sb.WriteString(", exported")
	}
	sb.WriteString(")\n\n")

	if utf8.Valid(content.Data) {
		sb.Write(content.Data)
	} else {
		fmt.Fprintf(&sb, "Binary content, %d bytes. Not shown.", len(content.Data))
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleListPermissions(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	fileID, ok := args["file_id"].(string)
	if !ok || fileID == "" {
		return mcp.NewToolResultError("file_id is required"), nil
	}

	client, err := drive.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	permissions, err := client.ListPermissions(ctx, fileID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list permissions: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d permissions on file %s:\n", len(permissions), fileID)
	for _, p := range permissions {
		grantee := p.EmailAddress
		if grantee == "" {
			grantee = p.Domain
		}
		if grantee == "" {
			grantee = p.Type
		}
		fmt.Fprintf(&sb, "- %s: %s (ID: %s, type: %s)\n", grantee, p.Role, p.ID, p.Type)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleCreateFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	fileName, ok := args["file_name"].(string)
	if !ok || fileName == "" {
		return mcp.NewToolResultError("file_name is required"), nil
	}
	content, ok := args["content"].(string)
	if !ok {
		return mcp.NewToolResultError("content is required"), nil
	}

	folderID := "root"
	if v, ok := args["folder_id"].(string); ok && v != "" {
		folderID = v
	}
	mimeType := "text/plain"
	if v, ok := args["mime_type"].(string); ok && v != "" {
		mimeType = v
	}

	client, err := drive.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	file, err := client.CreateFile(ctx, fileName, content, folderID, mimeType)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create file: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("File %q created. ID: %s\nLink: %s", file.Name, file.ID, file.WebViewLink)), nil
}

func handleCreateFolder(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	folderName, ok := args["folder_name"].(string)
	if !ok || folderName == "" {
		return mcp.NewToolResultError("folder_name is required"), nil
	}

	parentID := "root"
	if v, ok := args["parent_folder_id"].(string); ok && v != "" {
		parentID = v
	}

	client, err := drive.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	folder, err := client.CreateFolder(ctx, folderName, parentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create folder: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Folder %q created. ID: %s", folder.Name, folder.ID)), nil
}

func handleTrashFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	fileIDs, err := batch.ParseStringOrArray(args["file_ids"], "file_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, err := drive.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	results := batch.ProcessBatch(fileIDs, func(id string) (string, error) {
		file, err := client.TrashFile(ctx, id)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("File %q moved to trash", file.Name), nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

func handleDeleteFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	fileID, ok := args["file_id"].(string)
	if !ok || fileID == "" {
		return mcp.NewToolResultError("file_id is required"), nil
	}

	client, err := drive.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	if err := client.DeleteFile(ctx, fileID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete file: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("File %s permanently deleted.", fileID)), nil
}

func handleShareFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	fileID, ok := args["file_id"].(string)
	if !ok || fileID == "" {
		return mcp.NewToolResultError("file_id is required"), nil
	}
	email, ok := args["email"].(string)
	if !ok || email == "" {
		return mcp.NewToolResultError("email is required"), nil
	}

	role := "reader"
	if v, ok := args["role"].(string); ok && v != "" {
		role = v
	}
	sendNotification := true
	if v, ok := args["send_notification"].(bool); ok {
		sendNotification = v
	}

	client, err := drive.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	permission, err := client.ShareFile(ctx, fileID, email, role, sendNotification)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to share file: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("File %s shared with %s as %s. Permission ID: %s",
		fileID, email, permission.Role, permission.ID)), nil
}

func handleRemovePermission(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	fileID, ok := args["file_id"].(string)
	if !ok || fileID == "" {
		return mcp.NewToolResultError("file_id is required"), nil
	}
	permissionID, ok := args["permission_id"].(string)
	if !ok || permissionID == "" {
		return mcp.NewToolResultError("permission_id is required"), nil
	}

	client, err := drive.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	if err := client.RemovePermission(ctx, fileID, permissionID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to remove permission: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Permission %s removed from file %s.", permissionID, fileID)), nil
}
