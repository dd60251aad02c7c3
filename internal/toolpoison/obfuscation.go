package toolpoison

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
)

const maxDecodeNesting = 2

var base64Candidate = regexp.MustCompile(`[A-Za-z0-9+/]{24,}={0,2}`)
var hexCandidate = regexp.MustCompile(`(?:\\x[0-9a-fA-F]{2}){8,}`)
var hexBytePair = regexp.MustCompile(`\\x([0-9a-fA-F]{2})`)

// isPrintableEnough implements the 75%-printable acceptance gate: at least
// three quarters of decoded bytes must be ASCII 32-126, TAB, LF, or CR.
func isPrintableEnough(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	printable := 0
	for _, c := range b {
		if (c >= 32 && c <= 126) || c == '\t' || c == '\n' || c == '\r' {
			printable++
		}
	}
	return float64(printable)/float64(len(b)) >= 0.75
}

// decodeLayer attempts one layer of base64 or hex decoding on candidate,
// returning the decoded text and true only if it passes the printability
// gate and differs from the input.
func decodeLayer(candidate string) (string, bool) {
	if decoded, err := base64.StdEncoding.DecodeString(candidate); err == nil {
		if isPrintableEnough(decoded) && string(decoded) != candidate {
			return string(decoded), true
		}
	}
	if hexCandidate.MatchString(candidate) {
		joined := ""
		for _, m := range hexBytePair.FindAllStringSubmatch(candidate, -1) {
			joined += m[1]
		}
		if decoded, err := hex.DecodeString(joined); err == nil {
			if isPrintableEnough(decoded) && string(decoded) != candidate {
				return string(decoded), true
			}
		}
	}
	return "", false
}

// scanObfuscation tries base64 and hex decoding on candidate substrings of
// field, re-scanning successful decodes with the injection pack and checking
// whether a decode itself decodes again (maxDecodeNesting layers in all).
func scanObfuscation(field, text string) []DetectionResult {
	if text == "" {
		return nil
	}

	var results []DetectionResult

	for _, m := range base64Candidate.FindAllString(text, -1) {
		results = append(results, decodeAndReport(field, m, "base64", "TP_OBFUSC_001", 1)...)
	}
	for _, m := range hexCandidate.FindAllString(text, -1) {
		results = append(results, decodeAndReport(field, m, "hex", "TP_OBFUSC_002", 1)...)
	}

	return results
}

// decodeAndReport decodes one candidate and returns the Findings it
// produces. When the whole decoded text decodes once more, it adds a
// double-encoding finding; that second layer's content is not scanned.
func decodeAndReport(field, candidate, kind, hitPatternID string, depth int) []DetectionResult {
	decoded, ok := decodeLayer(candidate)
	if !ok {
		return nil
	}

	var results []DetectionResult

	injectionHits := scanInjection(field, decoded)
	switch {
	case len(injectionHits) > 0:
		results = append(results, DetectionResult{
			PatternID:   hitPatternID,
			Category:    "obfuscated_payload",
			Severity:    "critical",
			Field:       field,
			Title:       fmt.Sprintf("%s-encoded instruction-injection payload", kind),
			Description: "An encoded substring decodes to text that matches the instruction-injection pack.",
			Evidence:    fmt.Sprintf("encoded_prefix=%q decoded_prefix=%q", preview(candidate, 40), preview(decoded, 60)),
		})
	case len(decoded) >= 50:
		results = append(results, DetectionResult{
			PatternID:   "TP_OBFUSC_003",
			Category:    "obfuscated_payload",
			Severity:    "medium",
			Field:       field,
			Title:       "Unusual encoded content",
			Description: fmt.Sprintf("A %s-encoded substring decodes cleanly to %d bytes of printable text with no obvious purpose.", kind, len(decoded)),
			Evidence:    fmt.Sprintf("decoded_prefix=%q", preview(decoded, 60)),
		})
	}

	if depth < maxDecodeNesting {
		if inner, ok := decodeLayer(decoded); ok {
			_ = inner
			results = append(results, DetectionResult{
				PatternID:   "TP_OBFUSC_004",
				Category:    "obfuscated_payload",
				Severity:    "critical",
				Field:       field,
				Title:       "Double-encoded payload",
				Description: "The decoded content itself decodes again; double-encoding is strong evidence of deliberate obfuscation regardless of its inner content.",
				Evidence:    fmt.Sprintf("layer1_prefix=%q", preview(decoded, 40)),
			})
		}
	}

	return results
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
