// Package docs provides a client for interacting with the Google Docs API.
//
// This package covers the Docs operations exposed as MCP tools: searching
// documents by name (through Drive), extracting plain text from a document
// body including tabbed documents, creating documents, and inserting,
// replacing or appending text.
//
// Clients are constructed per identity from a credential supplied by the
// auth resolver.
package docs
