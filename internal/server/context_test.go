package server

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/teemow/workspacemcp/internal/auth"
)

func newTestServerContext(t *testing.T) *ServerContext {
	t.Helper()

	dir := t.TempDir()
	sc, err := NewServerContext(context.Background(), Config{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		CredentialsDir:     filepath.Join(dir, "credentials"),
		ClaspRCPath:        filepath.Join(dir, ".clasprc.json"),
	})
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() {
		_ = sc.Shutdown()
	})
	return sc
}

func TestNewServerContext(t *testing.T) {
	sc := newTestServerContext(t)

	if sc.Store() == nil {
		t.Error("Store() returned nil")
	}
	if sc.Resolver() == nil {
		t.Error("Resolver() returned nil")
	}
	if sc.Coordinator() == nil {
		t.Error("Coordinator() returned nil")
	}
	if sc.FlowKind() != auth.StrategyOAuth21 {
		t.Errorf("FlowKind() = %q, want %q", sc.FlowKind(), auth.StrategyOAuth21)
	}
	if sc.Metrics() != nil {
		t.Error("Metrics() should be nil before SetMetrics")
	}
	if sc.AuditLogger() != nil {
		t.Error("AuditLogger() should be nil before SetAuditLogger")
	}
}

func TestServerContextFlowKindOverride(t *testing.T) {
	dir := t.TempDir()
	sc, err := NewServerContext(context.Background(), Config{
		CredentialsDir: dir,
		ClaspRCPath:    filepath.Join(dir, ".clasprc.json"),
		FlowKind:       auth.StrategyOAuth2,
	})
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	defer func() { _ = sc.Shutdown() }()

	if sc.FlowKind() != auth.StrategyOAuth2 {
		t.Errorf("FlowKind() = %q, want %q", sc.FlowKind(), auth.StrategyOAuth2)
	}
}

func TestServerContextShutdown(t *testing.T) {
	sc := newTestServerContext(t)

	if sc.IsShutdown() {
		t.Error("IsShutdown() = true before Shutdown()")
	}

	if err := sc.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("IsShutdown() = false after Shutdown()")
	}

	// A second shutdown is a no-op
	if err := sc.Shutdown(); err != nil {
		t.Fatalf("second Shutdown() error = %v", err)
	}

	select {
	case <-sc.Context().Done():
	default:
		t.Error("Context() not canceled after Shutdown()")
	}
}
