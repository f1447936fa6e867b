package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

// makeIDToken builds an unsigned id_token carrying the given claims, the way
// Google's token endpoint would mint one (modulo the signature, which is not
// checked here).
func makeIDToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return signed
}

func TestEmailFromIDToken(t *testing.T) {
	idToken := makeIDToken(t, jwt.MapClaims{
		"email": "user@example.com",
		"sub":   "1234567890",
	})

	email, ok := EmailFromIDToken(idToken)
	if !ok {
		t.Fatal("EmailFromIDToken() ok = false, want true")
	}
	if email != "user@example.com" {
		t.Errorf("email = %s, want user@example.com", email)
	}
}

func TestEmailFromIDToken_NoEmailClaim(t *testing.T) {
	idToken := makeIDToken(t, jwt.MapClaims{"sub": "1234567890"})

	if email, ok := EmailFromIDToken(idToken); ok {
		t.Errorf("EmailFromIDToken() = %s, ok = true; want ok = false", email)
	}
}

func TestEmailFromIDToken_Garbage(t *testing.T) {
	for _, tc := range []string{"", "not-a-jwt", "a.b", "a.b.c"} {
		if _, ok := EmailFromIDToken(tc); ok {
			t.Errorf("EmailFromIDToken(%q) ok = true, want false", tc)
		}
	}
}
