package drive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/teemow/workspacemcp/internal/auth"
)

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// SpreadsheetMimeType is the MIME type for Google Sheets files
	SpreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

	// DocumentMimeType is the MIME type for Google Docs files
	DocumentMimeType = "application/vnd.google-apps.document"

	// PresentationMimeType is the MIME type for Google Slides files
	PresentationMimeType = "application/vnd.google-apps.presentation"
)

const fileFields = "id, name, mimeType, size, createdTime, modifiedTime, webViewLink, parents, owners, shared, trashed"

// Client wraps the Google Drive API service
type Client struct {
	service  *drive.Service
	identity string // The identity this client operates as
}

// Identity returns the identity this client operates as
func (c *Client) Identity() string {
	return c.identity
}

// NewClient creates a new Google Drive client for the given identity
func NewClient(ctx context.Context, resolver *auth.Resolver, identity string) (*Client, error) {
	cred, err := resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	service, err := drive.NewService(ctx, option.WithHTTPClient(auth.HTTPClient(ctx, cred)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		service:  service,
		identity: identity,
	}, nil
}

// SearchFiles searches for files and folders matching a Drive query
func (c *Client) SearchFiles(ctx context.Context, query string, pageSize int64) ([]*FileInfo, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	fileList, err := c.service.Files.List().
		Context(ctx).
		Q(query).
		PageSize(pageSize).
		Fields(googleapi.Field("nextPageToken, files(" + fileFields + ")")).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search files: %w", err)
	}

	files := make([]*FileInfo, len(fileList.Files))
	for i, f := range fileList.Files {
		files[i] = convertToFileInfo(f)
	}

	return files, nil
}

// ListItems lists files and folders inside a folder. An empty folderID
// lists the My Drive root.
func (c *Client) ListItems(ctx context.Context, folderID string, pageSize int64) ([]*FileInfo, error) {
	if folderID == "" {
		folderID = "root"
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)
	fileList, err := c.service.Files.List().
		Context(ctx).
		Q(query).
		PageSize(pageSize).
		OrderBy("folder,name").
		Fields(googleapi.Field("nextPageToken, files(" + fileFields + ")")).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", folderID, err)
	}

	files := make([]*FileInfo, len(fileList.Files))
	for i, f := range fileList.Files {
		files[i] = convertToFileInfo(f)
	}

	return files, nil
}

// GetFileContent fetches a file's content. Google editor files are exported
// (Docs to text, Sheets to CSV, Slides to text); everything else is
// downloaded directly.
func (c *Client) GetFileContent(ctx context.Context, fileID string) (*FileContent, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	file, err := c.service.Files.Get(fileID).
		Context(ctx).
		Fields("id, name, mimeType").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}

	exportMime, exported := ExportMimeType(file.MimeType)

	var body io.ReadCloser
	if exported {
		resp, err := c.service.Files.Export(fileID, exportMime).Context(ctx).Download()
		if err != nil {
			return nil, fmt.Errorf("failed to export file %s: %w", fileID, err)
		}
		body = resp.Body
	} else {
		resp, err := c.service.Files.Get(fileID).Context(ctx).Download()
		if err != nil {
			return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
		}
		body = resp.Body
		exportMime = file.MimeType
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read content of file %s: %w", fileID, err)
	}

	return &FileContent{
		Name:     file.Name,
		MimeType: exportMime,
		Data:     data,
		Exported: exported,
	}, nil
}

// CreateFile creates a new file with text content
func (c *Client) CreateFile(ctx context.Context, name, content, folderID, mimeType string) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if folderID == "" {
		folderID = "root"
	}
	if mimeType == "" {
		mimeType = "text/plain"
	}

	file := &drive.File{
		Name:    name,
		Parents: []string{folderID},
	}

	call := c.service.Files.Create(file).
		Context(ctx).
		Fields(googleapi.Field(fileFields))
	if content != "" {
		call = call.Media(strings.NewReader(content), googleapi.ContentType(mimeType))
	}

	driveFile, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return convertToFileInfo(driveFile), nil
}

// CreateFolder creates a new folder
func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("folder name is required")
	}
	if parentID == "" {
		parentID = "root"
	}

	file := &drive.File{
		Name:     name,
		MimeType: FolderMimeType,
		Parents:  []string{parentID},
	}

	driveFile, err := c.service.Files.Create(file).
		Context(ctx).
		Fields(googleapi.Field(fileFields)).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return convertToFileInfo(driveFile), nil
}

// DeleteFile permanently deletes a file. Use TrashFile for a recoverable
// deletion.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	if fileID == "" {
		return fmt.Errorf("fileID is required")
	}

	if err := c.service.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}

	return nil
}

// TrashFile moves a file to the trash
func (c *Client) TrashFile(ctx context.Context, fileID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	driveFile, err := c.service.Files.Update(fileID, &drive.File{Trashed: true}).
		Context(ctx).
		Fields(googleapi.Field(fileFields)).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to trash file %s: %w", fileID, err)
	}

	return convertToFileInfo(driveFile), nil
}

// ShareFile grants a user a role on a file or folder
func (c *Client) ShareFile(ctx context.Context, fileID, email, role string, sendNotification bool) (*Permission, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	switch role {
	case "":
		role = "reader"
	case "reader", "writer", "commenter", "owner":
	default:
		return nil, fmt.Errorf("invalid role %q: must be reader, writer, commenter or owner", role)
	}

	permission := &drive.Permission{
		Type:         "user",
		Role:         role,
		EmailAddress: email,
	}

	call := c.service.Permissions.Create(fileID, permission).
		Context(ctx).
		SendNotificationEmail(sendNotification).
		Fields("id, type, role, emailAddress, domain, displayName")
	if role == "owner" {
		// The API requires explicit consent for ownership transfer.
		call = call.TransferOwnership(true)
	}

	drivePermission, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to share file %s: %w", fileID, err)
	}

	return convertToPermission(drivePermission), nil
}

// ListPermissions lists all permissions on a file or folder
func (c *Client) ListPermissions(ctx context.Context, fileID string) ([]*Permission, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	permList, err := c.service.Permissions.List(fileID).
		Context(ctx).
		Fields("permissions(id, type, role, emailAddress, domain, displayName)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	permissions := make([]*Permission, len(permList.Permissions))
	for i, p := range permList.Permissions {
		permissions[i] = convertToPermission(p)
	}

	return permissions, nil
}

// RemovePermission removes a permission from a file or folder
func (c *Client) RemovePermission(ctx context.Context, fileID, permissionID string) error {
	if fileID == "" {
		return fmt.Errorf("fileID is required")
	}
	if permissionID == "" {
		return fmt.Errorf("permissionID is required")
	}

	if err := c.service.Permissions.Delete(fileID, permissionID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to remove permission: %w", err)
	}

	return nil
}

// ExportMimeType returns the export MIME type for Google editor files and
// whether the file needs exporting at all
func ExportMimeType(mimeType string) (string, bool) {
	switch mimeType {
	case DocumentMimeType:
		return "text/plain", true
	case SpreadsheetMimeType:
		return "text/csv", true
	case PresentationMimeType:
		return "text/plain", true
	}
	return "", false
}

// convertToFileInfo converts a Drive API File to our FileInfo type
func convertToFileInfo(f *drive.File) *FileInfo {
	fileInfo := &FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		WebViewLink: f.WebViewLink,
		Parents:     f.Parents,
		Shared:      f.Shared,
		Trashed:     f.Trashed,
	}

	if f.CreatedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
			fileInfo.CreatedTime = t
		}
	}
	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			fileInfo.ModifiedTime = t
		}
	}

	for _, owner := range f.Owners {
		fileInfo.Owners = append(fileInfo.Owners, User{
			DisplayName:  owner.DisplayName,
			EmailAddress: owner.EmailAddress,
		})
	}

	return fileInfo
}

// convertToPermission converts a Drive API Permission to our Permission type
func convertToPermission(p *drive.Permission) *Permission {
	return &Permission{
		ID:           p.Id,
		Type:         p.Type,
		Role:         p.Role,
		EmailAddress: p.EmailAddress,
		Domain:       p.Domain,
		DisplayName:  p.DisplayName,
	}
}
