// Package redact scrubs sensitive material from strings before they are
// logged. Database URLs, credentials, bearer tokens and raw SQL must
// never reach log output even when they ride inside wrapped errors.
package redact

import "regexp"

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

var rules = []rule{
	// Connection strings with inline credentials
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`), "[REDACTED_DSN]@"},

	// password=..., password: ... and friends
	{regexp.MustCompile(`(?i)(password|passwd|pwd)(['":=\s]+)[^'"&\s]{3,}`), "$1$2[REDACTED]"},

	// Secrets and API keys in key=value form
	{regexp.MustCompile(`(?i)(secret|api[_-]?key|token)(['":=\s]+)[A-Za-z0-9_\-.~+/]{8,}`), "$1$2[REDACTED]"},

	// JWTs (three base64url segments starting with eyJ)
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), "[REDACTED_JWT]"},

	// Bcrypt hashes
	{regexp.MustCompile(`\$2[aby]\$\d{2}\$[./A-Za-z0-9]{53}`), "[REDACTED_HASH]"},

	// Email addresses
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[REDACTED_EMAIL]"},

	// SQL fragments leaked from driver errors
	{regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE)\s[\s\w,.*()='"$]+(?:FROM|INTO|SET|WHERE)[\s\w,.*()='"$]*`), "[REDACTED_SQL]"},
}

// String returns the input with all recognized sensitive fragments
// replaced by placeholders.
func String(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts an error's Error() output. A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
