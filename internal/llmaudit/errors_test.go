package llmaudit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyHTTPErrorMapsStatusCodes(t *testing.T) {
	assert.Equal(t, ErrProviderAuth, classifyHTTPError(401, "").Kind)
	assert.Equal(t, ErrProviderAuth, classifyHTTPError(200, "Invalid API key supplied").Kind)
	assert.Equal(t, ErrProviderRateLimit, classifyHTTPError(429, "").Kind)
	assert.Equal(t, ErrProviderModelNotFound, classifyHTTPError(404, "").Kind)
	assert.Equal(t, ErrProviderContextTooLarge, classifyHTTPError(413, "").Kind)
	assert.Equal(t, ErrProviderServer, classifyHTTPError(503, "").Kind)
}

func TestAuditErrorIncludesHintWhenPresent(t *testing.T) {
	err := &AuditError{Kind: ErrProviderAuth, Text: "boom", Hint: "check your key"}
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "check your key")
}
