package llmaudit

import (
	"encoding/json"
	"regexp"
	"sort"
)

// fencedBlockPattern matches fenced code blocks (```json ... ``` or ``` ...
// ```); extraction tries them largest first, and blocks of equal length in
// the order they appear.
var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n(.*?)```")

// extractReport runs the three-mode JSON extractor over an LLM response
// body: (a) the whole body, (b) fenced code blocks, (c) balanced top-level
// {...} blocks found by a character-level state machine. A candidate is
// accepted only if it decodes to an object carrying a findings array and at
// least one of skill_slug/risk_score/result, which rejects JSON-shaped
// prose that never actually commits to the report contract.
func extractReport(body string) (*rawReport, bool) {
	if r, ok := tryDecode(body); ok {
		return r, true
	}

	blocks := fencedBlockPattern.FindAllStringSubmatch(body, -1)
	sort.SliceStable(blocks, func(i, j int) bool { return len(blocks[i][1]) > len(blocks[j][1]) })
	for _, b := range blocks {
		if r, ok := tryDecode(b[1]); ok {
			return r, true
		}
	}

	candidates := balancedObjects(body)
	sort.SliceStable(candidates, func(i, j int) bool { return len(candidates[i]) > len(candidates[j]) })
	for _, c := range candidates {
		if r, ok := tryDecode(c); ok {
			return r, true
		}
	}

	return nil, false
}

// tryDecode decodes s as a rawReport and applies the acceptance rule.
func tryDecode(s string) (*rawReport, bool) {
	var r rawReport
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return nil, false
	}
	if r.Findings == nil {
		return nil, false
	}
	if r.SkillSlug == "" && r.RiskScore == nil && r.Result == "" {
		return nil, false
	}
	return &r, true
}

// extractVerdict applies the same three-mode extraction strategy as
// extractReport but for the narrower verification response shape, which
// carries no findings array.
func extractVerdict(body string) (verifyVerdict, bool) {
	if v, ok := tryDecodeVerdict(body); ok {
		return v, true
	}
	blocks := fencedBlockPattern.FindAllStringSubmatch(body, -1)
	sort.SliceStable(blocks, func(i, j int) bool { return len(blocks[i][1]) > len(blocks[j][1]) })
	for _, b := range blocks {
		if v, ok := tryDecodeVerdict(b[1]); ok {
			return v, true
		}
	}
	candidates := balancedObjects(body)
	sort.SliceStable(candidates, func(i, j int) bool { return len(candidates[i]) > len(candidates[j]) })
	for _, c := range candidates {
		if v, ok := tryDecodeVerdict(c); ok {
			return v, true
		}
	}
	return verifyVerdict{}, false
}

func tryDecodeVerdict(s string) (verifyVerdict, bool) {
	var v verifyVerdict
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return verifyVerdict{}, false
	}
	if v.VerificationStatus == "" && v.Reasoning == "" {
		return verifyVerdict{}, false
	}
	return v, true
}

// balancedObjects walks text once, character by character, and returns
// every top-level balanced {...} substring. It is a small three-state
// machine (normal, in-string, escape-in-string) that emits an object each
// time the depth counter returns to zero, so that braces inside string
// literals (including escaped quotes) never desynchronise the counter. This is deliberately not a regex: brace
// matching with arbitrary nesting is not regular.
func balancedObjects(text string) []string {
	const (
		stateNormal = iota
		stateInString
		stateEscape
	)

	var out []string
	state := stateNormal
	depth := 0
	start := -1

	for i := 0; i < len(text); i++ {
		c := text[i]

		switch state {
		case stateEscape:
			state = stateInString
			continue
		case stateInString:
			switch c {
			case '\\':
				state = stateEscape
			case '"':
				state = stateNormal
			}
			continue
		}

		// stateNormal
		switch c {
		case '"':
			state = stateInString
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					out = append(out, text[start:i+1])
					start = -1
				}
			}
		}
	}

	return out
}
