// Package cmd implements the command-line interface for workspacemcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing Google Workspace tools
//   - setup: Inspect and configure authentication for the server
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
