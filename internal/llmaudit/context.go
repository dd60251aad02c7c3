package llmaudit

import (
	"math"
	"sort"
	"strings"
)

// contextWindows is the per-model dictionary of context windows (tokens).
// Keys are matched longest-first so a specific entry like
// "claude-sonnet-4-5" shadows a shorter generic "claude" fallback.
var contextWindows = map[string]int{
	"claude-opus-4":     200000,
	"claude-sonnet-4-5": 200000,
	"claude-sonnet-4":   200000,
	"claude-haiku-4-5":  200000,
	"claude":            200000,
	"gemini-2.5-pro":    1000000,
	"gemini-2.5-flash":  1000000,
	"gemini":            1000000,
	"gpt-5":             400000,
	"gpt-4o":            128000,
	"gpt":               128000,
	"deepseek-chat":     64000,
	"deepseek-reasoner": 64000,
	"deepseek":          64000,
	"mistral-large":     128000,
	"mistral":           32000,
	"grok-4":            256000,
	"grok":              131072,
	"glm-4.6":           128000,
	"glm":               128000,
	"llama-3.3":         128000,
	"sonar-pro":         200000,
	"command-r-plus":    128000,
}

// defaultContextWindow is used when no table entry matches model at all.
const defaultContextWindow = 32000

// charsPerToken is the estimator spec.md 4.4.2 specifies: ceil(chars/3.5).
const charsPerToken = 3.5

// contextWindowFor looks up model's window using longest-key-first matching
// so "gemini-2.5-pro" is preferred over the generic "gemini" entry.
func contextWindowFor(modelName string) int {
	lower := strings.ToLower(modelName)

	keys := make([]string, 0, len(contextWindows))
	for k := range contextWindows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	for _, k := range keys {
		if strings.Contains(lower, k) {
			return contextWindows[k]
		}
	}
	return defaultContextWindow
}

// estimateTokens implements the spec's char-count heuristic.
func estimateTokens(text string) int {
	return int(math.Ceil(float64(len(text)) / charsPerToken))
}

// guardResult is the outcome of a pre-dispatch context-limit check.
type guardResult struct {
	EstimatedTokens int
	Window          int
	Usage           float64 // fraction of window used
	Warn            bool    // usage > 0.9
	Err             *AuditError
}

// checkContext estimates input tokens for system+user and fails fast with
// ErrProviderContextTooLarge above 100% usage, per spec.md 4.4.2. It never
// calls the provider.
func checkContext(modelName, systemPrompt, userMessage string) guardResult {
	window := contextWindowFor(modelName)
	tokens := estimateTokens(systemPrompt) + estimateTokens(userMessage)
	usage := float64(tokens) / float64(window)

	res := guardResult{EstimatedTokens: tokens, Window: window, Usage: usage}
	if usage > 1.0 {
		res.Err = &AuditError{
			Kind: ErrProviderContextTooLarge,
			Text: "estimated input tokens exceed the model's context window",
			Hint: "scan fewer files or select a model with a larger context window",
		}
		return res
	}
	if usage > 0.9 {
		res.Warn = true
	}
	return res
}
