// Package util provides small helpers shared across sshmark. It imports no
// other internal package.
package util

import "strings"

// DefaultString returns the fallback value if v is empty or consists entirely
// of whitespace; otherwise it returns v unchanged.
func DefaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// EmptyDash returns "-" for blank strings. Used for optional table columns.
func EmptyDash(s string) string {
	return DefaultString(s, "-")
}
