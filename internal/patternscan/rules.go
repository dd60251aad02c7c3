package patternscan

import "regexp"

// rulePack is the fixed ~12-rule pattern pack. Grounded on the teacher's
// internal/policy/pattern compiled-pattern style: each rule is precompiled
// once at package init, never per-scan.
var rulePack = []Rule{
	{
		PatternID: "CMD_INJECT", Category: "injection", Severity: "high",
		Title:       "Possible command injection",
		Description: "A process-spawn call is built from string concatenation or interpolation instead of an argument list.",
		Regex:       regexp.MustCompile(`(?i)(exec(?:ute)?|spawn|subprocess\.(?:call|run|popen))\s*\(\s*["'\x60][^"'\x60]*["'\x60]?\s*\+|(?:subprocess\.(?:call|run|popen)|exec|spawn)\([^)]*%s`),
	},
	{
		PatternID: "CODE_EVAL", Category: "injection", Severity: "critical",
		Title:       "Dynamic code evaluation",
		Description: "The code evaluates a string as code at runtime, a common vector for smuggling in attacker-controlled logic.",
		Regex:       regexp.MustCompile(`(?i)\b(eval|exec)\s*\(|new\s+Function\s*\(`),
	},
	{
		PatternID: "SECRET_HARDCODED", Category: "secrets", Severity: "high",
		Title:       "Hardcoded secret",
		Description: "A string literal resembles an API key, token, or password assigned directly in source.",
		Regex:       regexp.MustCompile(`(?i)(api[_-]?key|secret|password|token)\s*[:=]\s*["'][A-Za-z0-9_\-]{16,}["']`),
	},
	{
		PatternID: "TLS_DISABLED", Category: "crypto", Severity: "high",
		Title:       "TLS certificate verification disabled",
		Description: "Certificate verification is explicitly turned off, exposing the connection to interception.",
		Regex:       regexp.MustCompile(`(?i)(insecureskipverify\s*:?\s*=?\s*true|verify\s*=\s*false|rejectunauthorized\s*:\s*false|NODE_TLS_REJECT_UNAUTHORIZED\s*=\s*['"]?0)`),
	},
	{
		PatternID: "PATH_TRAV", Category: "filesystem", Severity: "high",
		Title:       "Path built from unsanitised concatenation",
		Description: "A filesystem path is assembled by concatenating user input without normalisation, risking directory traversal.",
		Regex:       regexp.MustCompile(`(?i)(path\.join|os\.path\.join|filepath\.join)\([^)]*\.\.[^)]*\)|["'\x60][./]*\.\.[/\\][^"'\x60]*["'\x60]\s*\+`),
	},
	{
		PatternID: "CORS_WILDCARD", Category: "network", Severity: "medium",
		Title:       "Wildcard CORS origin",
		Description: "Access-Control-Allow-Origin is set to '*', allowing any origin to read responses.",
		Regex:       regexp.MustCompile(`(?i)access-control-allow-origin['"]?\s*[:=]\s*['"]\*['"]`),
	},
	{
		PatternID: "TELEMETRY_UNDISCLOSED", Category: "privacy", Severity: "medium",
		Title:       "Undisclosed telemetry endpoint",
		Description: "The code reports usage data to an analytics or telemetry endpoint not mentioned in the package's documentation surface.",
		Regex:       regexp.MustCompile(`(?i)(analytics|telemetry|tracking)[-_]?(endpoint|url|host)\s*[:=]\s*["']https?://`),
	},
	{
		PatternID: "SHELL_EXEC", Category: "filesystem", Severity: "high",
		Title:       "Direct shell execution",
		Description: "The code invokes a shell interpreter directly, which is a common primitive for both legitimate tooling and command injection.",
		Regex:       regexp.MustCompile(`(?i)\b(os\.system|child_process\.exec\b|shell_exec|Runtime\.getRuntime\(\)\.exec)\s*\(`),
	},
	{
		PatternID: "SQL_INTERP", Category: "injection", Severity: "high",
		Title:       "SQL built from string interpolation",
		Description: "A SQL statement is assembled with string formatting or concatenation instead of parameter binding.",
		Regex:       regexp.MustCompile(`(?i)(select|insert|update|delete)\s+.*["'\x60]\s*\+|f["']\s*(select|insert|update|delete)\s`),
	},
	{
		PatternID: "YAML_UNSAFE", Category: "deserialization", Severity: "high",
		Title:       "Unsafe YAML load",
		Description: "yaml.load without a safe loader can construct arbitrary Python objects from untrusted input.",
		Regex:       regexp.MustCompile(`(?i)yaml\.load\(\s*[^,)]+\)`),
	},
	{
		PatternID: "PICKLE_DESERIALIZE", Category: "deserialization", Severity: "critical",
		Title:       "Pickle deserialization of untrusted data",
		Description: "pickle.load/loads executes arbitrary code embedded in the serialized stream.",
		Regex:       regexp.MustCompile(`(?i)pickle\.(loads?|Unpickler)\s*\(`),
	},
	{
		PatternID: "PROMPT_INJECT_MARKER", Category: "prompt-injection", Severity: "medium",
		Title:       "Prompt-injection marker in source",
		Description: "Source text contains a phrasing commonly used to override an LLM's prior instructions.",
		Regex:       regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above)\s+instructions|you\s+are\s+now\s+(a|an|the)\b`),
	},
}
