package llmaudit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextWindowForPrefersMostSpecificKey(t *testing.T) {
	assert.Equal(t, 200000, contextWindowFor("claude-sonnet-4-5-20260101"))
	assert.Equal(t, 1000000, contextWindowFor("gemini-2.5-pro"))
	assert.Equal(t, defaultContextWindow, contextWindowFor("some-unknown-model"))
}

func TestEstimateTokensRoundsUp(t *testing.T) {
	assert.Equal(t, 3, estimateTokens("1234567890")) // 10 chars / 3.5 -> 2.86 -> 3
	assert.Equal(t, 0, estimateTokens(""))
}

func TestCheckContextWarnsAboveNinetyPercent(t *testing.T) {
	big := strings.Repeat("x", int(float64(defaultContextWindow)*charsPerToken*0.95))
	res := checkContext("some-unknown-model", "", big)
	assert.True(t, res.Warn)
	assert.Nil(t, res.Err)
}

func TestCheckContextFailsAboveWindow(t *testing.T) {
	big := strings.Repeat("x", int(float64(defaultContextWindow)*charsPerToken*1.5))
	res := checkContext("some-unknown-model", "", big)
	assert.NotNil(t, res.Err)
	assert.Equal(t, ErrProviderContextTooLarge, res.Err.Kind)
}

func TestCheckContextOKWellUnderWindow(t *testing.T) {
	res := checkContext("claude-sonnet-4-5", "short system prompt", "short user message")
	assert.False(t, res.Warn)
	assert.Nil(t, res.Err)
}
