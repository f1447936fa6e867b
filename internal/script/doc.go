// Package script provides a client for interacting with the Google Apps
// Script API.
//
// This package covers the Apps Script operations exposed as MCP tools:
// project creation and inspection, source file read and write, versioning,
// deployments, and execution processes and metrics.
//
// Script projects are also manageable through the clasp CLI; this package
// talks to the same API surface with the credential supplied by the auth
// resolver, which may itself be delegated from a clasp session.
package script
