// Package sheets_tools provides MCP tools for Google Sheets operations.
//
// This package registers tools that allow AI assistants to:
//   - Find spreadsheets in Drive
//   - Read cell ranges with a choice of value rendering
//   - Update and append cell values
//   - Create spreadsheets and inspect their structure
//
// Mutating operations (update, append, create) are only registered when the
// server runs with write access enabled.
package sheets_tools
