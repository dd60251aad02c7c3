package toolpoison

import (
	"fmt"
	"regexp"
)

var genericExclusivity = regexp.MustCompile(`(?i)\b(always|must)\s+run\s+(this\s+)?(tool\s+)?before\s+any\s+other\s+tool|\bonly\s+use\s+this\s+tool\b|\bdo\s+not\s+use\s+(any\s+)?other\s+tools?\b`)
var genericOverride = regexp.MustCompile(`(?i)\b(replaces?|overrides?|supersedes?)\s+(the\s+)?(behaviou?r\s+of\s+)?(any\s+)?other\s+tools?\b`)

// scanCrossTool implements the cross_tool_manipulation category across the
// full batch of tools: each tool's description is checked for adjacency to
// every sibling tool's name, plus two generic (name-independent) patterns,
// plus duplicate-name detection. The return slice is parallel to tools.
func scanCrossTool(tools []ToolDefinition) [][]DetectionResult {
	out := make([][]DetectionResult, len(tools))

	seen := make(map[string]int)
	for _, t := range tools {
		seen[t.Name]++
	}

	for i, t := range tools {
		if t.Description == "" {
			continue
		}
		for j, other := range tools {
			if i == j || other.Name == "" {
				continue
			}
			if adjacencyPattern(other.Name).MatchString(t.Description) {
				out[i] = append(out[i], DetectionResult{
					PatternID:   "TP_CROSSTOOL_001",
					Category:    "cross_tool_manipulation",
					Severity:    "high",
					Field:       "description",
					Title:       "Description references another tool's invocation order or priority",
					Description: fmt.Sprintf("Tool %q's description tries to steer invocation of sibling tool %q.", t.Name, other.Name),
					Evidence:    fmt.Sprintf("referenced_tool=%q", other.Name),
				})
				break
			}
		}

		if genericExclusivity.MatchString(t.Description) || genericOverride.MatchString(t.Description) {
			out[i] = append(out[i], DetectionResult{
				PatternID:   "TP_CROSSTOOL_002",
				Category:    "cross_tool_manipulation",
				Severity:    "high",
				Field:       "description",
				Title:       "Generic tool-exclusivity or override claim",
				Description: "The description claims exclusivity or demands to override/replace other tools without naming them.",
			})
		}
	}

	for i, t := range tools {
		if t.Name != "" && seen[t.Name] > 1 {
			out[i] = append(out[i], DetectionResult{
				PatternID:   "TP_CROSSTOOL_003",
				Category:    "cross_tool_manipulation",
				Severity:    "high",
				Field:       "name",
				Title:       "Duplicate tool name",
				Description: fmt.Sprintf("Tool name %q appears %d times in the same server; duplicate names let a malicious definition shadow a trusted one.", t.Name, seen[t.Name]),
			})
		}
	}

	return out
}

func adjacencyPattern(name string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(name)
	return regexp.MustCompile(`(?i)(call|use|invoke|run|execute|trigger)\W{0,20}` + escaped + `|` + escaped + `\W{0,20}(call|use|invoke|run|execute|trigger)|\b(before|after|instead\s+of)\W{0,20}` + escaped + `|` + escaped + `\W{0,20}\b(always|first|immediately)\b`)
}
