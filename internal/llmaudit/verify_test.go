package llmaudit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentaudit-dev/agentaudit-cli/internal/collector"
	"github.com/agentaudit-dev/agentaudit-cli/internal/model"
)

func TestApplyVerdictRejectsWhenCodeDoesNotExistOrMatch(t *testing.T) {
	f := &model.Finding{Severity: model.SeverityHigh}
	keep := []bool{true}
	meta := &model.VerificationMeta{}

	applyVerdict(f, verifyVerdict{CodeExists: false}, keep, 0, meta)
	assert.False(t, keep[0])
	assert.Equal(t, 1, meta.RejectedCount)
}

func TestApplyVerdictDemotesOptInHighSeverityToLow(t *testing.T) {
	f := &model.Finding{Severity: model.SeverityCritical}
	keep := []bool{true}
	meta := &model.VerificationMeta{}

	applyVerdict(f, verifyVerdict{CodeExists: true, CodeMatchesDescription: true, IsOptIn: true}, keep, 0, meta)

	assert.True(t, keep[0])
	assert.Equal(t, model.SeverityLow, f.Severity)
	assert.Equal(t, model.SeverityCritical, f.OriginalSeverity)
	assert.Equal(t, model.VerificationDemoted, f.VerificationStatus)
	assert.Equal(t, 1, meta.DemotedCount)
}

func TestApplyVerdictDemotesMissingAttackScenarioToMedium(t *testing.T) {
	f := &model.Finding{Severity: model.SeverityHigh}
	keep := []bool{true}
	meta := &model.VerificationMeta{}

	applyVerdict(f, verifyVerdict{CodeExists: true, CodeMatchesDescription: true, AttackScenario: ""}, keep, 0, meta)

	assert.Equal(t, model.SeverityMedium, f.Severity)
	assert.Equal(t, model.VerificationDemoted, f.VerificationStatus)
}

func TestApplyVerdictVerifiesOtherwise(t *testing.T) {
	f := &model.Finding{Severity: model.SeverityMedium}
	keep := []bool{true}
	meta := &model.VerificationMeta{}

	applyVerdict(f, verifyVerdict{
		CodeExists: true, CodeMatchesDescription: true, AttackScenario: "an attacker could...",
		VerifiedSeverity: "high",
	}, keep, 0, meta)

	assert.Equal(t, model.SeverityHigh, f.Severity)
	assert.Equal(t, model.VerificationVerified, f.VerificationStatus)
	assert.Equal(t, 1, meta.VerifiedCount)
}

func TestRankForVerificationOrdersBySeverityThenPosition(t *testing.T) {
	findings := []model.Finding{
		{Severity: model.SeverityLow, Title: "a"},
		{Severity: model.SeverityCritical, Title: "b"},
		{Severity: model.SeverityHigh, Title: "c"},
		{Severity: model.SeverityCritical, Title: "d"},
	}
	ranked := rankForVerification(findings)
	assert.Equal(t, []string{"b", "d", "c", "a"}, []string{ranked[0].Title, ranked[1].Title, ranked[2].Title, ranked[3].Title})
}

func TestFindManifestMatchesKnownNamesInPrecedenceOrder(t *testing.T) {
	files := []collector.FileEntry{
		{Path: "src/setup.cfg", Content: "cfg"},
		{Path: "pyproject.toml", Content: "toml-content"},
	}
	path, content := findManifest(files)
	assert.Equal(t, "pyproject.toml", path)
	assert.Equal(t, "toml-content", content)
}

func TestFindManifestReturnsEmptyWhenNoneMatch(t *testing.T) {
	path, content := findManifest([]collector.FileEntry{{Path: "main.go"}})
	assert.Empty(t, path)
	assert.Empty(t, content)
}
