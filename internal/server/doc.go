// Package server provides the MCP server context, health endpoints, and
// the Prometheus metrics server for the workspacemcp application.
//
// ServerContext assembles the authentication stack (credential store,
// token refresher, authorization flow coordinator, credential resolver)
// and hands it to the tool handlers. Google API clients are built per
// tool invocation from the resolver, so every call operates on a freshly
// resolved credential.
//
// HealthChecker serves /healthz and /readyz for Kubernetes probes, and
// MetricsServer exposes /metrics on a dedicated port so operational data
// stays off the MCP transport.
package server
