// Package patternscan implements C3: a small fixed regex rule pack run over
// every collected file's text, grounded on the teacher's
// internal/policy/pattern package (ReDoS-guarded compiled patterns).
package patternscan

import "regexp"

// Rule is one compiled entry in the scanner's fixed rule pack.
type Rule struct {
	PatternID   string
	Category    string
	Severity    string
	Title       string
	Description string
	Regex       *regexp.Regexp
}
