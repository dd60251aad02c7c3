package llmaudit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractReportDecodesWholeBody(t *testing.T) {
	body := `{"skill_slug":"demo","result":"unsafe","findings":[{"pattern_id":"CMD_INJECT","title":"x"}]}`
	r, ok := extractReport(body)
	require.True(t, ok)
	assert.Equal(t, "demo", r.SkillSlug)
	assert.Len(t, r.Findings, 1)
}

func TestExtractReportPrefersLargestFencedBlock(t *testing.T) {
	body := "intro\n```json\n{\"result\":\"safe\",\"findings\":[]}\n```\nmore prose\n```json\n{\"skill_slug\":\"demo\",\"result\":\"unsafe\",\"findings\":[{\"pattern_id\":\"CMD_INJECT\",\"title\":\"longer block wins\"}]}\n```\n"
	r, ok := extractReport(body)
	require.True(t, ok)
	assert.Equal(t, "demo", r.SkillSlug)
	assert.Len(t, r.Findings, 1)
}

func TestExtractReportFindsBalancedObjectInProse(t *testing.T) {
	body := `Here is my analysis: {"skill_slug": "demo", "result": "safe", "findings": []} Thanks!`
	r, ok := extractReport(body)
	require.True(t, ok)
	assert.Equal(t, "demo", r.SkillSlug)
}

func TestExtractReportRejectsObjectWithoutFindings(t *testing.T) {
	body := `{"skill_slug":"demo","result":"safe"}`
	_, ok := extractReport(body)
	assert.False(t, ok)
}

func TestExtractReportRejectsObjectMissingAnchorFields(t *testing.T) {
	body := `{"findings":[{"pattern_id":"x"}]}`
	_, ok := extractReport(body)
	assert.False(t, ok)
}

func TestBalancedObjectsIgnoresBracesInsideStrings(t *testing.T) {
	text := `noise {"a": "text with a } brace inside"} trailer`
	objs := balancedObjects(text)
	require.Len(t, objs, 1)
	assert.Equal(t, `{"a": "text with a } brace inside"}`, objs[0])
}

func TestExtractVerdictDecodesWholeBody(t *testing.T) {
	body := `{"verification_status":"verified","reasoning":"matches description"}`
	v, ok := extractVerdict(body)
	require.True(t, ok)
	assert.Equal(t, "matches description", v.Reasoning)
}
