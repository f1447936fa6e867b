package common

import (
	"testing"

	"github.com/teemow/workspacemcp/internal/auth"
)

func TestIdentityFromArgs_Explicit(t *testing.T) {
	args := map[string]interface{}{
		"user_google_email": "user@example.com",
	}

	identity := IdentityFromArgs(args)
	if identity != "user@example.com" {
		t.Errorf("expected user@example.com, got %q", identity)
	}
}

func TestIdentityFromArgs_Missing(t *testing.T) {
	identity := IdentityFromArgs(map[string]interface{}{})
	if identity != auth.DefaultIdentity {
		t.Errorf("expected %q, got %q", auth.DefaultIdentity, identity)
	}
}

func TestIdentityFromArgs_Empty(t *testing.T) {
	args := map[string]interface{}{
		"user_google_email": "",
	}

	identity := IdentityFromArgs(args)
	if identity != auth.DefaultIdentity {
		t.Errorf("expected %q, got %q", auth.DefaultIdentity, identity)
	}
}

func TestIdentityFromArgs_WrongType(t *testing.T) {
	args := map[string]interface{}{
		"user_google_email": 42,
	}

	identity := IdentityFromArgs(args)
	if identity != auth.DefaultIdentity {
		t.Errorf("expected %q, got %q", auth.DefaultIdentity, identity)
	}
}
