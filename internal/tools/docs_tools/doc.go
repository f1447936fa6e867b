// Package docs_tools provides MCP tools for Google Docs operations.
//
// This package registers tools that allow AI assistants to:
//   - Find documents in Drive
//   - Read document content as plain text, including tabs and tables
//   - Create documents with initial content
//   - Insert, replace and append text
//
// Mutating operations (create, modify, append) are only registered when the
// server runs with write access enabled.
package docs_tools
