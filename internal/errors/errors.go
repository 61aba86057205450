// Package errors renders command failures for terminal output. Every error a
// planrise user sees passes through Format, so refusals from the feasibility
// check print in the same shape as a missing store file.
package errors

import "fmt"

// Format renders err with the standard "Error: " prefix. A nil error renders
// empty so callers can print the result unconditionally.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf is Format for a message built from a format string.
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}
