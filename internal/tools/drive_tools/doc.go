// Package drive_tools provides MCP tools for Google Drive operations.
//
// This package registers tools that allow AI assistants to:
//   - Search files and browse folder contents
//   - Read file content, exporting Google editor files to text formats
//   - Create files and folders
//   - Trash or permanently delete files
//   - Manage sharing permissions
//
// Mutating operations (create, delete, trash, share) are only registered
// when the server runs with write access enabled.
package drive_tools
