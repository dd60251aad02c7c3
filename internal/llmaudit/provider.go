package llmaudit

import (
	"os"
	"strings"
)

// providerTable is the fixed set of thirteen providers, declaration order
// matters for selection rule 3 (spec.md 4.4.1). Grounded on the teacher's
// internal/llmproxy.DefaultDialectConfigs table shape (name/base-url/
// path-prefix per entry), generalised from two dialects to three provider
// types and from a passthrough proxy to an outbound client table.
var providerTable = []Provider{
	{Name: "Anthropic", Key: "anthropic", EnvVar: "ANTHROPIC_API_KEY", BaseURL: "https://api.anthropic.com", DefaultModel: "claude-sonnet-4-5", Type: ProviderTypeAnthropic},
	{Name: "Google Gemini", Key: "gemini", EnvVar: "GEMINI_API_KEY", BaseURL: "https://generativelanguage.googleapis.com", DefaultModel: "gemini-2.5-pro", Type: ProviderTypeGemini},
	{Name: "OpenAI", Key: "openai", EnvVar: "OPENAI_API_KEY", BaseURL: "https://api.openai.com/v1", DefaultModel: "gpt-5", Type: ProviderTypeOpenAICompat},
	{Name: "DeepSeek", Key: "deepseek", EnvVar: "DEEPSEEK_API_KEY", BaseURL: "https://api.deepseek.com", DefaultModel: "deepseek-chat", Type: ProviderTypeOpenAICompat},
	{Name: "Mistral", Key: "mistral", EnvVar: "MISTRAL_API_KEY", BaseURL: "https://api.mistral.ai/v1", DefaultModel: "mistral-large-latest", Type: ProviderTypeOpenAICompat},
	{Name: "xAI Grok", Key: "grok", EnvVar: "XAI_API_KEY", BaseURL: "https://api.x.ai/v1", DefaultModel: "grok-4", Type: ProviderTypeOpenAICompat},
	{Name: "Zhipu GLM", Key: "glm", EnvVar: "ZHIPU_API_KEY", BaseURL: "https://open.bigmodel.cn/api/paas/v4", DefaultModel: "glm-4.6", Type: ProviderTypeOpenAICompat},
	{Name: "Groq", Key: "groq", EnvVar: "GROQ_API_KEY", BaseURL: "https://api.groq.com/openai/v1", DefaultModel: "llama-3.3-70b-versatile", Type: ProviderTypeOpenAICompat},
	{Name: "Together AI", Key: "together", EnvVar: "TOGETHER_API_KEY", BaseURL: "https://api.together.xyz/v1", DefaultModel: "meta-llama/Llama-3.3-70B-Instruct-Turbo", Type: ProviderTypeOpenAICompat},
	{Name: "Fireworks", Key: "fireworks", EnvVar: "FIREWORKS_API_KEY", BaseURL: "https://api.fireworks.ai/inference/v1", DefaultModel: "accounts/fireworks/models/llama-v3p3-70b-instruct", Type: ProviderTypeOpenAICompat},
	{Name: "Perplexity", Key: "perplexity", EnvVar: "PERPLEXITY_API_KEY", BaseURL: "https://api.perplexity.ai", DefaultModel: "sonar-pro", Type: ProviderTypeOpenAICompat},
	{Name: "Cohere", Key: "cohere", EnvVar: "COHERE_API_KEY", BaseURL: "https://api.cohere.ai/compatibility/v1", DefaultModel: "command-r-plus", Type: ProviderTypeOpenAICompat},
	{Name: "OpenRouter", Key: "openrouter", EnvVar: "OPENROUTER_API_KEY", BaseURL: "https://openrouter.ai/api/v1", DefaultModel: "anthropic/claude-sonnet-4.5", Type: ProviderTypeOpenAICompat},
}

// openRouterKey is the provider key used as the universal fallback for
// slash-form model names and for step 3 of the selection precedence.
const openRouterKey = "openrouter"

// modelPrefixProvider maps a well-known model-name prefix to the provider
// key that natively serves it (spec.md 4.4.1 step 1).
var modelPrefixProvider = map[string]string{
	"claude":   "anthropic",
	"gemini":   "gemini",
	"gpt":      "openai",
	"deepseek": "deepseek",
	"mistral":  "mistral",
	"grok":     "grok",
	"glm":      "glm",
}

// LookupProvider returns the provider entry for key, or false if unknown.
func LookupProvider(key string) (Provider, bool) {
	for _, p := range providerTable {
		if p.Key == key {
			return p, true
		}
	}
	return Provider{}, false
}

// HasKey reports whether the provider's API key environment variable is
// set and non-empty.
func HasKey(p Provider) bool {
	return strings.TrimSpace(os.Getenv(p.EnvVar)) != ""
}

// Providers returns the fixed table in declaration order.
func Providers() []Provider {
	out := make([]Provider, len(providerTable))
	copy(out, providerTable)
	return out
}

// Select resolves the active provider and model per the precedence in
// spec.md 4.4.1:
//  1. an explicit per-invocation model override, resolved by slash ->
//     OpenRouter, known prefix -> matching native provider (if its key is
//     present), else OpenRouter;
//  2. a persisted preferred-provider setting whose key is present;
//  3. the first provider in declaration order whose key is present.
//
// Select never calls out to the network; it is pure over its arguments and
// the process environment.
func Select(modelOverride, preferredProvider string) (Provider, string, error) {
	if modelOverride != "" {
		return selectForModel(modelOverride)
	}

	if preferredProvider != "" {
		if p, ok := LookupProvider(preferredProvider); ok && HasKey(p) {
			return p, p.DefaultModel, nil
		}
	}

	for _, p := range providerTable {
		if HasKey(p) {
			return p, p.DefaultModel, nil
		}
	}

	return Provider{}, "", &AuditError{
		Kind: ErrProviderAuth,
		Text: "no provider API key is configured",
		Hint: "set one of the thirteen provider environment variables, e.g. ANTHROPIC_API_KEY",
	}
}

// selectForModel implements precedence step 1.
func selectForModel(model string) (Provider, string, error) {
	if strings.Contains(model, "/") {
		p, _ := LookupProvider(openRouterKey)
		return p, model, nil
	}

	lower := strings.ToLower(model)
	for prefix, key := range modelPrefixProvider {
		if strings.HasPrefix(lower, prefix) {
			if p, ok := LookupProvider(key); ok && HasKey(p) {
				return p, model, nil
			}
			break
		}
	}

	p, _ := LookupProvider(openRouterKey)
	return p, model, nil
}

// crossFamily reports whether candidate belongs to a different model
// family than reference, used to pick a "cross" verifier model (spec.md
// 4.4.5's self vs cross choice).
func crossFamily(reference, candidate Provider) bool {
	return reference.Key != candidate.Key
}

// PickCrossVerifier returns the first provider (in declaration order) whose
// key is present, its key differs from scanner, and is not scanner itself.
// Returns false if none is available.
func PickCrossVerifier(scanner Provider) (Provider, bool) {
	for _, p := range providerTable {
		if HasKey(p) && crossFamily(scanner, p) {
			return p, true
		}
	}
	return Provider{}, false
}
