package llmaudit

import (
	"fmt"
	"strings"
)

// ErrorKind is the closed error taxonomy from spec.md section 7. Only the
// provider.* and verification.unavailable members are produced by this
// package; input/clone/collection errors belong to their own stages.
type ErrorKind string

const (
	ErrProviderAuth           ErrorKind = "provider.auth"
	ErrProviderRateLimit      ErrorKind = "provider.rate_limit"
	ErrProviderModelNotFound  ErrorKind = "provider.model_not_found"
	ErrProviderContextTooLarge ErrorKind = "provider.context_too_large"
	ErrProviderServer         ErrorKind = "provider.server"
	ErrProviderParse          ErrorKind = "provider.parse"
	ErrVerificationUnavail    ErrorKind = "verification.unavailable"
)

// AuditError is a value, not an exception: callers inspect Kind and Hint
// instead of unwinding on it. It never carries an API key (Text/Hint are
// built from static strings, response status/body previews, and local error
// texts from which call strips the request URL).
type AuditError struct {
	Kind ErrorKind
	Text string
	Hint string
}

func (e *AuditError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Text, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Text)
}

// classifyHTTPError maps an HTTP status code and response body to the
// provider.* error taxonomy, per spec.md section 4.4.3/7.
func classifyHTTPError(status int, body string) *AuditError {
	lower := strings.ToLower(body)
	switch {
	case status == 401 || status == 403 || strings.Contains(lower, "invalid api key") || strings.Contains(lower, "unauthorized"):
		return &AuditError{Kind: ErrProviderAuth, Text: "authentication failed", Hint: "check that the provider's API key environment variable is set and valid"}
	case status == 429 || strings.Contains(lower, "rate limit"):
		return &AuditError{Kind: ErrProviderRateLimit, Text: "rate limited by provider", Hint: "retry later or switch --model to a different provider"}
	case status == 404 || strings.Contains(lower, "model not found") || strings.Contains(lower, "does not exist"):
		return &AuditError{Kind: ErrProviderModelNotFound, Text: "model not found", Hint: "check --model against the provider's published model list"}
	case status == 413 || strings.Contains(lower, "context length") || strings.Contains(lower, "too many tokens") || strings.Contains(lower, "maximum context"):
		return &AuditError{Kind: ErrProviderContextTooLarge, Text: "input exceeds the model's context window", Hint: "scan a smaller package or choose a model with a larger context window"}
	case status >= 500:
		return &AuditError{Kind: ErrProviderServer, Text: fmt.Sprintf("provider server error (status %d)", status), Hint: "the provider is degraded; this invocation does not auto-retry"}
	default:
		return &AuditError{Kind: ErrProviderServer, Text: fmt.Sprintf("unexpected provider status %d", status), Hint: ""}
	}
}
