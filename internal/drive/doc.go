// Package drive provides a client for interacting with the Google Drive API.
//
// This package covers the Drive operations exposed as MCP tools:
//   - File and folder search with Drive query syntax
//   - Folder listing
//   - Content retrieval, exporting Google editor files to text or CSV
//   - File and folder creation
//   - Deletion (permanent or trash)
//   - Sharing and permission management
//
// Clients are constructed per identity from a credential supplied by the
// auth resolver.
package drive
