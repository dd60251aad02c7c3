package enrich

import "strings"

// remediationFallback is used for any pattern_id with no specific template,
// per spec.md 4.5 step 6 ("otherwise a generic fallback").
const remediationFallback = "Review the cited code against the finding's description and confirm whether the behaviour is intentional; if not, remove or gate it behind explicit user opt-in."

// placeholderRemediations is the set of values the enricher treats as
// "empty" when a producer fills a field with a non-answer instead of
// leaving it blank.
var placeholderRemediations = map[string]bool{
	"": true, "n/a": true, "none": true, "tbd": true, "unknown": true,
}

// remediationByPattern is the fixed pattern_id -> remediation-template
// table, grounded on the same rule set as cwe.go.
var remediationByPattern = map[string]string{
	"TP_UNICODE_001":   "Strip non-printing and directional-override Unicode code points from tool names and descriptions before publishing the package.",
	"TP_HOMOGLYPH_001": "Rename the tool/field to use only Latin characters that match its visible rendering; mixed-script identifiers should be rejected at publish time.",
	"TP_HOMOGLYPH_002": "Rename the tool/field to use only Latin characters that match its visible rendering; mixed-script identifiers should be rejected at publish time.",
	"TP_SCHEMA_001":    "Enumerate the accepted properties explicitly and set additionalProperties to false, or document why arbitrary additional fields are required.",
	"TP_OBFUSC_001":    "Remove the encoded payload from the tool description; tool descriptions should be plain, reviewable prose.",
	"TP_OBFUSC_002":    "Remove the encoded payload from the tool description; tool descriptions should be plain, reviewable prose.",
	"TP_OBFUSC_003":    "Remove the encoded payload; multiple layers of encoding in a tool description has no legitimate purpose.",
	"TP_OBFUSC_004":    "Remove the encoded payload; multiple layers of encoding in a tool description has no legitimate purpose.",
	"TP_URL_001":       "Document the external endpoint in the package's README and confirm it is reachable from the expected deployment network.",
	"TP_URL_002":       "Remove references to tunnelling/interception hosts from shipped tool descriptions; these have no place in a published package.",

	"CMD_INJECT":           "Pass arguments as an argument list/array to the process-spawn call instead of concatenating or interpolating them into a shell string.",
	"CODE_EVAL":            "Replace eval/Function construction with an explicit parser or a fixed dispatch table over known-safe operations.",
	"SECRET_HARDCODED":     "Move the credential to an environment variable or secret store and rotate the exposed value.",
	"TLS_DISABLED":         "Remove the certificate-verification bypass; use a properly signed certificate or pin a known-good CA in non-development environments.",
	"PATH_TRAV":            "Normalise and validate the resulting path stays within the intended root directory (e.g. filepath.Clean plus a prefix check) before use.",
	"CORS_WILDCARD":        "Restrict Access-Control-Allow-Origin to an explicit allowlist of trusted origins instead of '*'.",
	"TELEMETRY_UNDISCLOSED": "Document the telemetry endpoint and its data collection scope in the package's README, or remove it if unintended.",
	"SHELL_EXEC":           "Replace direct shell invocation with a language-level API that does not parse a command string through a shell.",
	"SQL_INTERP":           "Use parameterised queries/prepared statements instead of building SQL via string interpolation.",
	"YAML_UNSAFE":          "Use a safe-load API (e.g. yaml.safe_load or an explicit SafeLoader) so the document cannot construct arbitrary objects.",
	"PICKLE_DESERIALIZE":   "Replace pickle with a data-only format (JSON, protobuf) for anything that can originate outside the process.",
	"PROMPT_INJECT_MARKER": "Review the surrounding context: if this text is meant to be read by an LLM, clarify scope and remove directive-style phrasing aimed at overriding prior instructions.",
}

// remediationFor returns the remediation template for patternID.
func remediationFor(patternID string) string {
	if r, ok := remediationByPattern[patternID]; ok {
		return r
	}
	return remediationFallback
}

// isPlaceholder reports whether s should be treated as empty for the
// purposes of step 6 (remediation) and step 5 (content) backfill.
func isPlaceholder(s string) bool {
	return placeholderRemediations[strings.ToLower(strings.TrimSpace(s))]
}
