// Package script_tools provides MCP tools for Google Apps Script operations.
//
// This package registers tools that allow AI assistants to:
//   - Create script projects and read their metadata and source files
//   - Replace the full source content of a project
//   - Create and list versions
//   - Create, list and delete deployments
//   - Inspect recent executions and aggregate metrics
//
// Mutating operations (project creation, content updates, versions and
// deployments) are only registered when the server runs with write access
// enabled.
package script_tools
