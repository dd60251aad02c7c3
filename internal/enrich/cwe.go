package enrich

// cweBackstop is used for any pattern_id with no entry below, per spec.md
// 4.5 step 4 ("otherwise CWE-693 as backstop" — Protection Mechanism
// Failure, the closest general-purpose CWE for an unmapped heuristic hit).
const cweBackstop = "CWE-693"

// cweByPattern is the fixed pattern_id -> CWE table. Grounded on the CWE
// IDs already attached to comparable rule packs in
// other_examples/girdav01-SkillsGuard__models.go's DetectionRule.CWE field
// and the pattern descriptions in internal/patternscan/rules.go /
// internal/toolpoison/*.go.
var cweByPattern = map[string]string{
	// C2: tool poisoning
	"TP_UNICODE_001":   "CWE-838", // Inappropriate Encoding for Output Context
	"TP_INJECT_001":    "CWE-1427",
	"TP_INJECT_002":    "CWE-1427",
	"TP_INJECT_003":    "CWE-1427",
	"TP_INJECT_004":    "CWE-1427",
	"TP_INJECT_005":    "CWE-1427",
	"TP_INJECT_006":    "CWE-1427",
	"TP_INJECT_007":    "CWE-1427",
	"TP_INJECT_008":    "CWE-1427",
	"TP_INJECT_009":    "CWE-1427",
	"TP_INJECT_010":    "CWE-1427",
	"TP_INJECT_011":    "CWE-1427",
	"TP_INJECT_012":    "CWE-1427",
	"TP_INJECT_013":    "CWE-200",
	"TP_INJECT_014":    "CWE-918",
	"TP_INJECT_015":    "CWE-200",
	"TP_INJECT_016":    "CWE-1427",
	"TP_INJECT_017":    "CWE-78",
	"TP_INJECT_018":    "CWE-1427",
	"TP_INJECT_019":    "CWE-1427",
	"TP_INJECT_020":    "CWE-1427",
	"TP_INJECT_021":    "CWE-506",
	"TP_OBFUSC_001":    "CWE-506",
	"TP_OBFUSC_002":    "CWE-506",
	"TP_OBFUSC_003":    "CWE-506",
	"TP_OBFUSC_004":    "CWE-506",
	"TP_LENGTH_001":    "CWE-1427",
	"TP_LENGTH_002":    "CWE-1427",
	"TP_LENGTH_003":    "CWE-1427",
	"TP_LENGTH_004":    "CWE-1427",
	"TP_CROSSTOOL_001": "CWE-1427",
	"TP_CROSSTOOL_002": "CWE-1427",
	"TP_CROSSTOOL_003": "CWE-1427",
	"TP_HOMOGLYPH_001": "CWE-1007",
	"TP_HOMOGLYPH_002": "CWE-1007",
	"TP_URL_001":       "CWE-918",
	"TP_URL_002":       "CWE-918",
	"TP_SCHEMA_001":    "CWE-20",
	"TP_SCHEMA_003":    "CWE-1427",
	"TP_SCHEMA_004":    "CWE-1427",

	// C3: pattern scanner
	"CMD_INJECT":            "CWE-78",
	"CODE_EVAL":              "CWE-95",
	"SECRET_HARDCODED":       "CWE-798",
	"TLS_DISABLED":           "CWE-295",
	"PATH_TRAV":              "CWE-22",
	"CORS_WILDCARD":          "CWE-942",
	"TELEMETRY_UNDISCLOSED":  "CWE-200",
	"SHELL_EXEC":             "CWE-78",
	"SQL_INTERP":             "CWE-89",
	"YAML_UNSAFE":            "CWE-502",
	"PICKLE_DESERIALIZE":     "CWE-502",
	"PROMPT_INJECT_MARKER":   "CWE-1427",
}

// cweFor returns the CWE assignment for patternID (step 4 of the enricher:
// "if cwe_id is empty, look up a fixed table; otherwise CWE-693 backstop").
func cweFor(patternID string) string {
	if id, ok := cweByPattern[patternID]; ok {
		return id
	}
	return cweBackstop
}
