package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"
)

func TestGenerateCodeVerifier(t *testing.T) {
	verifier, err := GenerateCodeVerifier()
	if err != nil {
		t.Fatalf("GenerateCodeVerifier() error = %v", err)
	}

	// RFC 7636: 43-128 characters
	if len(verifier) < 43 || len(verifier) > 128 {
		t.Errorf("verifier length = %d, want 43-128", len(verifier))
	}

	// base64url alphabet only
	const allowed = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	for _, c := range verifier {
		if !strings.ContainsRune(allowed, c) {
			t.Errorf("verifier contains invalid character %q", c)
		}
	}
}

func TestGenerateCodeVerifier_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		v, err := GenerateCodeVerifier()
		if err != nil {
			t.Fatalf("GenerateCodeVerifier() error = %v", err)
		}
		if seen[v] {
			t.Fatal("GenerateCodeVerifier() produced a duplicate")
		}
		seen[v] = true
	}
}

func TestGenerateCodeChallenge(t *testing.T) {
	verifier := "test-verifier-string-that-is-long-enough-for-pkce"
	challenge := GenerateCodeChallenge(verifier)

	h := sha256.Sum256([]byte(verifier))
	want := base64.RawURLEncoding.EncodeToString(h[:])

	if challenge != want {
		t.Errorf("GenerateCodeChallenge() = %s, want %s", challenge, want)
	}

	// No padding per RFC 7636
	if strings.Contains(challenge, "=") {
		t.Error("challenge contains padding")
	}
}

func TestGenerateState_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		state, err := GenerateState()
		if err != nil {
			t.Fatalf("GenerateState() error = %v", err)
		}
		if state == "" {
			t.Fatal("GenerateState() returned empty state")
		}
		if seen[state] {
			t.Fatal("GenerateState() produced a duplicate")
		}
		seen[state] = true
	}
}
