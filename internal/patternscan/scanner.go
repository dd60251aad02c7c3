package patternscan

import (
	"strconv"
	"strings"

	"github.com/agentaudit-dev/agentaudit-cli/internal/collector"
	"github.com/agentaudit-dev/agentaudit-cli/internal/model"
)

// Scan runs the fixed rule pack over every file's text, in file-then-rule
// order, and returns one Finding per match with file, 1-based line, and a
// snippet. Matches are deduplicated per (rule, file, line).
func Scan(files []collector.FileEntry) []model.Finding {
	var findings []model.Finding

	for _, f := range files {
		seen := make(map[string]bool)
		for _, rule := range rulePack {
			locs := rule.Regex.FindAllStringIndex(f.Content, -1)
			for _, loc := range locs {
				line := lineNumber(f.Content, loc[0])
				key := rule.PatternID + ":" + strconv.Itoa(line)
				if seen[key] {
					continue
				}
				seen[key] = true

				finding := model.Finding{
					PatternID:   rule.PatternID,
					Category:    model.Category(rule.Category),
					Severity:    model.Severity(rule.Severity),
					Confidence:  model.ConfidenceMedium,
					Title:       rule.Title,
					Description: rule.Description,
					File:        f.Path,
					Line:        line,
					Content:     snippet(f.Content, loc[0], loc[1]),
				}
				finding.Sanitize()
				findings = append(findings, finding)
			}
		}
	}

	return findings
}

// lineNumber derives a 1-based line number by counting newlines before
// offset.
func lineNumber(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	return strings.Count(text[:offset], "\n") + 1
}

// snippet returns the full line containing [start,end).
func snippet(text string, start, end int) string {
	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	lineEnd := strings.IndexByte(text[end:], '\n')
	if lineEnd == -1 {
		lineEnd = len(text)
	} else {
		lineEnd += end
	}
	return strings.TrimSpace(text[lineStart:lineEnd])
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
