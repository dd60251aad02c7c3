package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindingSanitizeByDesignZeroesScoreImpact(t *testing.T) {
	f := Finding{Severity: SeverityCritical, ByDesign: true}
	f.Sanitize()
	assert.Equal(t, 0, f.ScoreImpact)
}

func TestFindingSanitizeScoreImpactFollowsSeverity(t *testing.T) {
	cases := []struct {
		severity Severity
		want     int
	}{
		{SeverityCritical, -25},
		{SeverityHigh, -15},
		{SeverityMedium, -5},
		{SeverityLow, -1},
		{SeverityWarning, 0},
		{SeverityInfo, 0},
	}

	for _, tc := range cases {
		f := Finding{Severity: tc.severity}
		f.Sanitize()
		assert.Equalf(t, tc.want, f.ScoreImpact, "severity %s", tc.severity)
	}
}

func TestFindingSanitizeRejectsUnknownSeverity(t *testing.T) {
	f := Finding{Severity: "apocalyptic"}
	f.Sanitize()
	assert.Equal(t, SeverityMedium, f.Severity)
}

func TestFindingSanitizeRejectsUnknownConfidence(t *testing.T) {
	f := Finding{Confidence: "vibes"}
	f.Sanitize()
	assert.Equal(t, ConfidenceMedium, f.Confidence)
}

func TestFindingSanitizeClearsUnsafeFilePaths(t *testing.T) {
	cases := []string{
		"../../etc/passwd",
		"a/../../b",
		"file\x00.txt",
		"https://evil.example/payload",
	}

	for _, path := range cases {
		f := Finding{File: path}
		f.Sanitize()
		assert.Emptyf(t, f.File, "path %q should have been cleared", path)
	}
}

func TestFindingSanitizeKeepsSafeFilePaths(t *testing.T) {
	f := Finding{File: "src/server/index.ts"}
	f.Sanitize()
	assert.Equal(t, "src/server/index.ts", f.File)
}

func TestFindingSanitizeNegativeLineClearedToZero(t *testing.T) {
	f := Finding{Line: -4}
	f.Sanitize()
	assert.Equal(t, 0, f.Line)
}

func TestFindingSanitizeIdempotent(t *testing.T) {
	f := Finding{Severity: SeverityHigh, File: "x/y.go", Line: 12}
	f.Sanitize()
	first := f
	f.Sanitize()
	assert.Equal(t, first, f)
}
