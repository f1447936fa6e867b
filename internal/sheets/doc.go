// Package sheets provides a client for interacting with the Google Sheets
// API.
//
// This package covers the Sheets operations exposed as MCP tools: listing
// spreadsheets (through Drive search), reading and writing cell ranges in
// A1 notation, appending rows, creating spreadsheets, and fetching sheet
// metadata.
//
// Clients are constructed per identity from a credential supplied by the
// auth resolver.
package sheets
