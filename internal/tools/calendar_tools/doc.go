// Package calendar_tools provides MCP tools for Google Calendar operations.
//
// This package registers tools that allow AI assistants to:
//   - List the calendars visible to the account
//   - Query upcoming events within a time window
//   - Create, update and delete events, including all-day events and
//     events with attendees
//
// Mutating operations (create, update, delete) are only registered when the
// server runs with write access enabled.
package calendar_tools
