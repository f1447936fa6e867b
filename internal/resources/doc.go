// Package resources provides MCP resources exposing authentication state.
// Resources are read-only data sources MCP clients can fetch without invoking
// a tool, such as the list of authenticated accounts and the clasp session
// status.
package resources
