// Package auth implements the unified authentication subsystem for Google
// Workspace access.
//
// Three strategies are supported:
//   - clasp: delegation to an externally managed clasp CLI session
//     (~/.clasprc.json), requiring no Google Cloud project configuration
//   - oauth2: the standard OAuth 2.0 authorization code flow
//   - oauth21: OAuth 2.1 with PKCE (RFC 7636, S256)
//
// The package is organized around four components:
//   - FileStore persists one credential record per identity with restrictive
//     file permissions
//   - Refresher decides token staleness and performs the refresh exchange
//   - Coordinator manages interactive authorization flows, keyed by state
//     token and bounded by a TTL
//   - Resolver is the single entry point every tool call uses to obtain a
//     ready-to-use credential
//
// All failure modes are typed (StorageError, ReauthRequiredError,
// RefreshError, InvalidFlowError, ExchangeError) so callers can map each
// kind to a distinct, actionable user message.
package auth
