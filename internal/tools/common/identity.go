package common

import (
	"github.com/teemow/workspacemcp/internal/auth"
)

// IdentityFromArgs extracts the Google account identity from request
// arguments. Tools that act on a specific account accept a
// "user_google_email" argument; when it is absent or empty the shared
// default identity is used, which matches the single-account setup where
// credentials were stored without an explicit email.
func IdentityFromArgs(args map[string]interface{}) string {
	if email, ok := args["user_google_email"].(string); ok && email != "" {
		return email
	}
	return auth.DefaultIdentity
}
