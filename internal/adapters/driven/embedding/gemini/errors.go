package gemini

import "strings"

// isRateLimitError reports whether an API error is a quota or rate
// limit rejection. The Gemini SDK surfaces these as googleapi errors
// whose text carries the 429 status or a quota message.
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "resource_exhausted")
}
