package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentaudit-dev/agentaudit-cli/internal/model"
	"github.com/agentaudit-dev/agentaudit-cli/internal/reportio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixtureReport(t *testing.T) string {
	t.Helper()
	r := model.NewReport("demo-skill", "https://github.com/acme/demo", "hash")
	r.Findings = []model.Finding{{
		Severity: model.SeverityHigh, Title: "Direct shell execution",
		Description: "uses os.system", File: "tool.py", Line: 2,
	}}
	r.Finalize()

	data, err := reportio.MarshalJSON(r)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRunReportMarkdown(t *testing.T) {
	path := writeFixtureReport(t)
	cmd, out, _ := testCmd()

	require.NoError(t, runReport(cmd, path, "markdown"))
	md := out.String()
	assert.Contains(t, md, "# demo-skill")
	assert.Contains(t, md, "Direct shell execution")
	assert.Contains(t, md, "tool.py:2")
}

func TestRunReportSARIF(t *testing.T) {
	path := writeFixtureReport(t)
	cmd, out, _ := testCmd()

	require.NoError(t, runReport(cmd, path, "sarif"))
	assert.Contains(t, out.String(), `"version": "2.1.0"`)
}

func TestRunReportRejectsMissingFile(t *testing.T) {
	cmd, _, _ := testCmd()
	err := runReport(cmd, filepath.Join(t.TempDir(), "missing.json"), "markdown")
	require.Error(t, err)
	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 2, ee.Code())
}

func TestRunReportRejectsUnknownFormat(t *testing.T) {
	path := writeFixtureReport(t)
	cmd, _, _ := testCmd()
	err := runReport(cmd, path, "yaml")
	require.Error(t, err)
	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 2, ee.Code())
}
