package toolpoison

import (
	"fmt"
	"regexp"
)

// injectionPattern is one compiled entry in the instruction-injection pack.
type injectionPattern struct {
	ID          string
	Title       string
	Severity    string
	Confidence  string
	Regex       *regexp.Regexp
}

// injectionPack is the fixed ~21-pattern instruction-injection detection
// set, grounded on the teacher's mcpinspect credential/exfiltration/hidden-
// instruction packs in internal/mcpinspect/detector.go, generalised and
// expanded to the spec's twenty-one category list.
var injectionPack = []injectionPattern{
	{"TP_INJECT_001", "Literal <IMPORTANT>/<SYSTEM> tag marker", "critical", "high",
		regexp.MustCompile(`(?i)</?(important|system)>`)},
	{"TP_INJECT_002", "Bracketed/parenthesised IMPORTANT marker", "high", "high",
		regexp.MustCompile(`(?i)[\{\[\(]\s*important\s*[\}\]\)]`)},
	{"TP_INJECT_003", "Instruction-override phrasing", "critical", "high",
		regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above|preceding)\s+instructions?`)},
	{"TP_INJECT_004", "Role-hijack phrasing", "high", "medium",
		regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an|the)\b`)},
	{"TP_INJECT_005", "Mandatory-action directive", "high", "medium",
		regexp.MustCompile(`(?i)\byou\s+must\s+(always|never)\b|\balways\s+(do|run|call|execute)\b`)},
	{"TP_INJECT_006", "Pre-action directive", "high", "high",
		regexp.MustCompile(`(?i)before\s+(using|calling)\s+any\s+other\s+tool|first\s+(run|call|execute)\b`)},
	{"TP_INJECT_007", "Hidden-instruction label", "high", "high",
		regexp.MustCompile(`(?i)[\[\(](hidden|secret|internal|private)[\]\)]\s*:?`)},
	{"TP_INJECT_008", "HTML-comment-wrapped directive", "medium", "medium",
		regexp.MustCompile(`(?i)<!--.*(ignore|important|system|execute).*-->`)},
	{"TP_INJECT_009", "CSS-hidden block directive", "medium", "medium",
		regexp.MustCompile(`(?i)(display\s*:\s*none|visibility\s*:\s*hidden)`)},
	{"TP_INJECT_010", "Collapsible-details hiding", "medium", "low",
		regexp.MustCompile(`(?i)<details>.*<summary>`)},
	{"TP_INJECT_011", "User-deception directive", "high", "high",
		regexp.MustCompile(`(?i)do\s*n['o]?t\s+(tell|mention|inform|show)\s+(this\s+to\s+)?the\s+user|don'?t\s+let\s+the\s+user\s+know`)},
	{"TP_INJECT_012", "Security-bypass directive", "critical", "high",
		regexp.MustCompile(`(?i)(bypass|disable|skip|ignore)\s+(the\s+)?(security|safety|permission)\s*(check|control|warning)s?`)},
	{"TP_INJECT_013", "Data-exfiltration directive", "critical", "high",
		regexp.MustCompile(`(?i)(send|upload|exfiltrate|transmit|post)\s+all\s+(data|conversation|history|files|information|messages)`)},
	{"TP_INJECT_014", "Embedded HTTP fetch verb", "medium", "medium",
		regexp.MustCompile(`(?i)\b(fetch|curl|wget)\s+https?://`)},
	{"TP_INJECT_015", "Data-redirection verb", "high", "medium",
		regexp.MustCompile(`(?i)(redirect|forward|copy)\s+(the\s+)?(output|response|result)s?\s+to\b`)},
	{"TP_INJECT_016", "Override-default-behaviour verb", "medium", "medium",
		regexp.MustCompile(`(?i)(override|replace)\s+the\s+default\s+behaviou?r`)},
	{"TP_INJECT_017", "Shell-command literal", "high", "medium",
		regexp.MustCompile(`(?i)\b(rm\s+-rf|curl\s+.*\|\s*(ba)?sh|wget\s+.*\|\s*(ba)?sh)\b`)},
	{"TP_INJECT_018", "Role-play jailbreak phrasing", "high", "medium",
		regexp.MustCompile(`(?i)pretend\s+(you\s+are|there\s+(is|are)\s+no)|act\s+as\s+if\s+there\s+(is|are)\s+no\s+restrictions?`)},
	{"TP_INJECT_019", "Context-stuffing delimiter abuse", "medium", "low",
		regexp.MustCompile(`(?i)end\s+of\s+instructions|new\s+conversation\s+begins`)},
	{"TP_INJECT_020", "Conditional hidden trigger", "high", "medium",
		regexp.MustCompile(`(?i)if\s+the\s+user\s+asks\s+.*,?\s*instead\s+(do|respond|call)\b`)},
	{"TP_INJECT_021", "Encoded-directive marker", "high", "medium",
		regexp.MustCompile(`(?i)(the\s+following\s+is\s+)?base64[\s-]?encoded.{0,40}(decode|execute|run)`)},
}

// scanInjection runs the full instruction-injection pack against one field
// and returns one DetectionResult per matching pattern.
func scanInjection(field, text string) []DetectionResult {
	if text == "" {
		return nil
	}

	var results []DetectionResult
	for _, p := range injectionPack {
		loc := p.Regex.FindStringIndex(text)
		if loc == nil {
			continue
		}
		results = append(results, DetectionResult{
			PatternID:   p.ID,
			Category:    "instruction_injection",
			Severity:    p.Severity,
			Field:       field,
			Title:       p.Title,
			Description: "Tool text matches a known instruction-injection phrasing.",
			Evidence:    windowAround(text, loc[0], loc[1], 100),
		})
	}
	return results
}

// windowAround returns a context window of at most maxLen characters
// centred on [start,end) of text, used as Finding evidence.
func windowAround(text string, start, end, maxLen int) string {
	pad := (maxLen - (end - start)) / 2
	if pad < 0 {
		pad = 0
	}
	lo := start - pad
	if lo < 0 {
		lo = 0
	}
	hi := end + pad
	if hi > len(text) {
		hi = len(text)
	}
	if hi-lo > maxLen {
		hi = lo + maxLen
		if hi > len(text) {
			hi = len(text)
		}
	}
	return fmt.Sprintf("%q", text[lo:hi])
}
