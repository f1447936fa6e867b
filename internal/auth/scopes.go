package auth

// DefaultScopes are the Google OAuth scopes requested by the interactive
// authorization flows. They cover every Workspace service the server
// exposes tools for.
//
// The scopes provide access to:
//   - Gmail: read, send, modify labels
//   - Google Drive: full access (also backs the Sheets and Docs searches)
//   - Google Sheets: read and write
//   - Google Calendar: full access
//   - Google Docs: read and write
//   - Apps Script: projects, deployments, processes and metrics
var DefaultScopes = []string{
	// OpenID Connect scopes (required to learn the authorized email)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Gmail
	"https://mail.google.com/",

	// Google Drive
	"https://www.googleapis.com/auth/drive",

	// Google Sheets
	"https://www.googleapis.com/auth/spreadsheets",

	// Google Calendar
	"https://www.googleapis.com/auth/calendar",

	// Google Docs
	"https://www.googleapis.com/auth/documents",

	// Apps Script
	"https://www.googleapis.com/auth/script.projects",
	"https://www.googleapis.com/auth/script.deployments",
	"https://www.googleapis.com/auth/script.processes",
	"https://www.googleapis.com/auth/script.metrics",
}
