// Package enrich implements C5's normalisation stage: deterministic
// post-processing that turns raw C2/C3/C4 output into the report's
// authoritative Finding records (CWE assignment, snippet recovery,
// remediation templates, and the I1-I7 invariant recomputation), and
// nothing else — scoring and severity ordering live in internal/model,
// which this package calls rather than duplicates.
package enrich

import (
	"strconv"
	"strings"

	"github.com/agentaudit-dev/agentaudit-cli/internal/collector"
	"github.com/agentaudit-dev/agentaudit-cli/internal/model"
)

// placeholderContent mirrors isPlaceholder's treatment of remediation but
// for the content/snippet field (spec.md 4.5 step 5).
func placeholderContent(s string) bool {
	return isPlaceholder(s)
}

// Enrich normalises every finding in r in place and recomputes RiskScore,
// MaxSeverity, Result, and FindingsCount. It is idempotent: calling it
// twice on the same report produces the same result, because every step
// below is a pure function of the finding's own (already-sanitised)
// fields plus the fixed lookup tables in cwe.go/remediation.go.
func Enrich(r *model.Report, files []collector.FileEntry) {
	byPath := indexFiles(files)

	for i := range r.Findings {
		enrichOne(&r.Findings[i], byPath)
	}

	r.Finalize()
}

func indexFiles(files []collector.FileEntry) map[string]collector.FileEntry {
	m := make(map[string]collector.FileEntry, len(files))
	for _, f := range files {
		m[f.Path] = f
	}
	return m
}

// enrichOne applies steps 1-8 of spec.md 4.5 to a single finding. Steps
// 1-3 and 7-8 are invariant enforcement and are delegated to
// Finding.Sanitize (step-for-step identical rules, already implemented
// once in internal/model to avoid a second copy of I1-I4); this function
// adds the CWE/content/remediation backfill that Sanitize does not own.
func enrichOne(f *model.Finding, byPath map[string]collector.FileEntry) {
	f.Sanitize()

	if f.CWEID == "" {
		f.CWEID = cweFor(f.PatternID)
	}

	if placeholderContent(f.Content) && f.File != "" && f.Line > 0 {
		if fe, ok := byPath[f.File]; ok {
			if snippet := contextLines(fe.Content, f.Line); snippet != "" {
				f.Content = snippet
			}
		}
	}

	if isPlaceholder(f.Remediation) {
		f.Remediation = remediationFor(f.PatternID)
	}
}

// contextLines recovers three lines of context (line-1..line+1, 1-based)
// from content.
func contextLines(content string, line int) string {
	lines := strings.Split(content, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}

	start := line - 2 // line-1 in 0-based indexing
	if start < 0 {
		start = 0
	}
	end := line + 1 // line+1 in 0-based indexing, exclusive upper bound
	if end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(": ")
		b.WriteString(lines[i])
		if i != end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
