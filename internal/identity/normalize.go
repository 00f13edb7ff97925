package identity

import "strings"

// NormalizeEmail performs case-insensitive canonicalization.
// Trim + lower-case only; stricter rules would have to be versioned so that
// stored normalized values stay stable.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
