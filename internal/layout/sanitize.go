package layout

import "strings"

// Sanitize collapses line breaks and runs of whitespace into single spaces
// and trims the ends. Every drawn string passes through it before
// measurement and drawing, so multi-line input cannot break out of a
// single-line field.
func Sanitize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
