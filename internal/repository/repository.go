package repository

import "strings"

// NormalizeEmail lowercases and trims an email so it can be used as the join
// key between an identity principal and its teacher or student record.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
