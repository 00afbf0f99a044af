package sanitizer

import "strings"

// TrimAndNormalize collapses runs of whitespace to single spaces and trims
// the ends. Booking forms arrive with tabs and double spaces often enough
// that this runs on every free-text field before validation.
func TrimAndNormalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeName cleans a passenger or contact name. Casing is preserved;
// names are displayed back to the customer as typed.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeEmail lowercases and trims an email address so lookups by email
// are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
