package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFinalizeRiskScoreAccumulatesMagnitude(t *testing.T) {
	r := NewReport("demo-skill", "https://example.com/demo", "deadbeef")
	r.Findings = []Finding{
		{Severity: SeverityHigh},   // 15
		{Severity: SeverityMedium}, // 5
	}
	r.Finalize()

	assert.Equal(t, 20, r.RiskScore)
	assert.Equal(t, ResultCaution, r.Result)
	assert.Equal(t, SeverityHigh, r.MaxSeverity)
	assert.Equal(t, 2, r.FindingsCount)
}

func TestReportFinalizeCapsRiskScoreAt100(t *testing.T) {
	r := NewReport("demo-skill", "", "hash")
	for i := 0; i < 10; i++ {
		r.Findings = append(r.Findings, Finding{Severity: SeverityCritical})
	}
	r.Finalize()

	assert.Equal(t, 100, r.RiskScore)
	assert.Equal(t, ResultUnsafe, r.Result)
}

func TestReportFinalizeByDesignFindingsExcludedFromScore(t *testing.T) {
	r := NewReport("demo-skill", "", "hash")
	r.Findings = []Finding{
		{Severity: SeverityCritical, ByDesign: true},
		{Severity: SeverityLow},
	}
	r.Finalize()

	assert.Equal(t, 1, r.RiskScore)
	assert.Equal(t, ResultSafe, r.Result)
	// max_severity still reflects the by-design critical finding: I7 counts
	// severity among "findings present", independent of score exclusion.
	assert.Equal(t, SeverityCritical, r.MaxSeverity)
}

func TestReportFinalizeResultThresholds(t *testing.T) {
	cases := []struct {
		score int
		want  Result
	}{
		{0, ResultSafe},
		{25, ResultSafe},
		{26, ResultCaution},
		{50, ResultCaution},
		{51, ResultUnsafe},
		{100, ResultUnsafe},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, resultFor(tc.score), "score %d", tc.score)
	}
}

func TestReportFinalizeNoFindingsIsSafeWithNoneSeverity(t *testing.T) {
	r := NewReport("demo-skill", "", "hash")
	r.Finalize()

	require.Equal(t, 0, r.RiskScore)
	assert.Equal(t, SeverityNone, r.MaxSeverity)
	assert.Equal(t, ResultSafe, r.Result)
	assert.Equal(t, 0, r.FindingsCount)
}

func TestReportFinalizeIsIdempotent(t *testing.T) {
	r := NewReport("demo-skill", "", "hash")
	r.Findings = []Finding{{Severity: SeverityHigh}, {Severity: SeverityLow}}
	r.Finalize()
	first := r.RiskScore
	r.Finalize()
	assert.Equal(t, first, r.RiskScore)
}

func TestNewReportStampsUniqueScanID(t *testing.T) {
	a := NewReport("demo-skill", "", "hash")
	b := NewReport("demo-skill", "", "hash")

	assert.NotEmpty(t, a.ScanID)
	assert.NotEqual(t, a.ScanID, b.ScanID)
}

func TestTokenUsageAdd(t *testing.T) {
	u := TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}
	u.Add(TokenUsage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5})

	assert.Equal(t, 13, u.PromptTokens)
	assert.Equal(t, 7, u.CompletionTokens)
	assert.Equal(t, 20, u.TotalTokens)
}
