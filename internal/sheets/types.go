package sheets

import "strings"

// SpreadsheetInfo is the condensed Drive view of a spreadsheet used for
// listings
type SpreadsheetInfo struct {
	ID           string
	Title        string
	ModifiedTime string
	WebViewLink  string
}

// escapeQuery escapes single quotes and backslashes for embedding a user
// string in a Drive query literal
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
