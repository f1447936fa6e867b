package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// DefaultIdentity is the store key used when the authorized email could not
// be determined and no identity hint was given.
const DefaultIdentity = "default"

// EmailFromIDToken extracts the email claim from an OpenID Connect id_token.
// The token comes directly from Google's token endpoint over TLS, so the
// signature is not re-verified here.
//
// An unknown email is a normal outcome, reported through the boolean, not an
// error: some grants simply do not include the claim.
func EmailFromIDToken(idToken string) (string, bool) {
	if idToken == "" {
		return "", false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(idToken, claims); err != nil {
		return "", false
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", false
	}
	return email, true
}
