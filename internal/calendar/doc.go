// Package calendar provides a client for interacting with the Google
// Calendar API.
//
// This package covers the Calendar operations exposed as MCP tools: listing
// calendars, querying events in a time window, and creating, updating and
// deleting events, including all-day events.
//
// Clients are constructed per identity from a credential supplied by the
// auth resolver.
package calendar
