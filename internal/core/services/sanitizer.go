package services

import "regexp"

// Redaction markers substituted for PII-shaped spans.
const (
	RedactedEmail  = "<REDACTED_EMAIL>"
	RedactedNumber = "<REDACTED_NUMBER>"
	RedactedID     = "<REDACTED_ID>"
	RedactedPhone  = "<REDACTED_PHONE>"
)

type redaction struct {
	pattern *regexp.Regexp
	marker  string
}

// The order matters: broader patterns must not see spans a narrower one owns.
var redactions = []redaction{
	{regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`), RedactedEmail},
	{regexp.MustCompile(`\b\d{6,}\b`), RedactedNumber},
	{regexp.MustCompile(`(?i)(booking|order|invoice|reservation|confirmation)[^\w\n]{0,5}#?\s*\d+`), RedactedID},
	{regexp.MustCompile(`\+?\d[\d\s-]{7,}\d`), RedactedPhone},
}

// Sanitize replaces email addresses, long digit runs, keyword-adjacent ids and
// phone-shaped sequences with redaction markers. Applying it twice is the same
// as applying it once.
func Sanitize(text string) string {
	for _, r := range redactions {
		text = r.pattern.ReplaceAllLiteralString(text, r.marker)
	}
	return text
}
