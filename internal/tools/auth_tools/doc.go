// Package auth_tools provides MCP tools for Google account authorization.
//
// This package registers the tools that drive the interactive OAuth flow:
//   - start_google_auth returns the authorization URL to open in a browser
//   - complete_google_auth exchanges the redirect URL for stored credentials
//
// The flow produces a unified credential covering every Google service the
// server exposes: Gmail, Drive, Sheets, Calendar, Docs and Apps Script.
// A clasp CLI session, when present, is picked up automatically and neither
// tool needs to be called.
package auth_tools
