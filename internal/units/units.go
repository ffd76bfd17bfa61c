// Package units normalizes free-text unit labels to UN/ECE Recommendation
// 20 unit codes as used by EN 16931 invoices.
package units

import "strings"

// Default is the code for unrecognized or empty unit labels ("piece").
const Default = "C62"

// codes is the fixed label table. Loaded once, never mutated.
var codes = map[string]string{
	"hour":      "HUR",
	"hours":     "HUR",
	"h":         "HUR",
	"stunde":    "HUR",
	"stunden":   "HUR",
	"km":        "KMT",
	"kilometer": "KMT",
	"m":         "MTR",
	"meter":     "MTR",
	"pcs":       "C62",
	"pieces":    "C62",
	"stück":     "C62",
	"stk":       "C62",
	"day":       "DAY",
	"days":      "DAY",
	"tag":       "DAY",
	"tage":      "DAY",
	"kg":        "KGM",
	"kilogram":  "KGM",
	"g":         "GRM",
	"gram":      "GRM",
}

// Code maps a unit label to its UN/ECE code. The label is case-folded and
// trimmed first; anything not in the table maps to Default. Total over all
// inputs, no failure path.
func Code(label string) string {
	if code, ok := codes[strings.ToLower(strings.TrimSpace(label))]; ok {
		return code
	}
	return Default
}
