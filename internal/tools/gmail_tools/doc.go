// Package gmail_tools provides MCP tools for Gmail operations.
//
// This package registers tools that allow AI assistants to:
//   - Search messages with Gmail query syntax
//   - Fetch full message content including the decoded body
//   - Send emails with CC, BCC and HTML support
//   - List and apply Gmail labels
//
// Sending and label modification are write operations and are only
// registered when the server runs with write access enabled.
package gmail_tools
