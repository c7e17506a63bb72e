package sanitizer

import "strings"

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// ToLower lowercases the string.
func ToLower(s string) string {
	return strings.ToLower(s)
}

// NormalizeEmail trims and lowercases an email address so that lookups and
// uniqueness checks are case-insensitive. It performs no validation.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername trims surrounding whitespace from a username. Case is
// preserved: usernames are case-sensitive login keys.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}
