// Package sanitizer provides input normalization for booking data.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// typically by returning empty strings rather than errors.
//
// Normalization includes:
//   - Contact numbers: Convert to E.164 format (+[country][number])
//   - Names: Collapse whitespace, trim leading/trailing spaces
//   - Emails: Trim and lowercase
package sanitizer
