// internal/logging/sanitizer.go
package logging

import "regexp"

const redactedText = "[REDACTED]"

var (
	// password=xxx, pwd=xxx, pass=xxx up to the next delimiter
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// user:pass@host credentials embedded in a URL
	credentialsPattern = regexp.MustCompile(`://[^:/@\s]+:[^@\s]+@`)
)

// SanitizeURL removes credentials from a connection string before it is
// logged. Connection URLs are otherwise opaque, so this is the only place
// the application looks inside one.
func SanitizeURL(url string) string {
	if url == "" {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(url, "${1}="+redactedText)
	return credentialsPattern.ReplaceAllString(sanitized, "://"+redactedText+"@")
}
