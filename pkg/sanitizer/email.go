package sanitizer

import (
	"regexp"
	"strings"
)

var consecutiveDots = regexp.MustCompile(`\.{2,}`)

// NormalizeEmail lowercases and trims an email address so that lookups and
// uniqueness checks treat differently-cased input as the same account.
// Invalid shapes are returned as-is (lowercased); validation is a separate
// concern.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}

	// Collapse doubled dots in the local part; some providers reject them.
	local = consecutiveDots.ReplaceAllString(local, ".")
	local = strings.Trim(local, ".")

	return local + "@" + domain
}
