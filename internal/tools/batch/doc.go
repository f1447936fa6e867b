// Package batch provides helpers for tools that operate on one or many
// Google resource IDs in a single call.
//
// Parameters may arrive as a plain string, a JSON array, or an array
// serialized as a JSON string depending on the MCP client. ParseStringOrArray
// normalizes all three forms, ProcessBatch applies an operation per ID with
// partial-failure tracking, and FormatResults renders the aggregate outcome.
package batch
