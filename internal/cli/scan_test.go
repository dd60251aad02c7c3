package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixtureSkill(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tool.py"), []byte(body), 0o644))
	return dir
}

func TestRunScanCleanSourceExitsZero(t *testing.T) {
	t.Setenv("AGENTAUDIT_CACHE", filepath.Join(t.TempDir(), "cache.db"))
	dir := writeFixtureSkill(t, "def add(a, b):\n    return a + b\n")

	cmd, out, _ := testCmd()
	cmd.SetContext(context.Background())

	err := runScan(cmd, dir, "json", false)
	assert.NoError(t, err)
	assert.Contains(t, out.String(), `"skill_slug"`)
}

func TestRunScanFlagsPatternMatch(t *testing.T) {
	t.Setenv("AGENTAUDIT_CACHE", filepath.Join(t.TempDir(), "cache.db"))
	dir := writeFixtureSkill(t, "import os\nos.system('rm -rf /tmp/x')\n")

	cmd, out, _ := testCmd()
	cmd.SetContext(context.Background())

	err := runScan(cmd, dir, "json", false)
	require.Error(t, err)
	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 1, ee.Code())
	assert.Contains(t, out.String(), `"findings"`)
}

func TestRunScanRejectsMissingSource(t *testing.T) {
	t.Setenv("AGENTAUDIT_CACHE", filepath.Join(t.TempDir(), "cache.db"))
	cmd, _, _ := testCmd()
	cmd.SetContext(context.Background())

	err := runScan(cmd, filepath.Join(t.TempDir(), "does-not-exist"), "json", false)
	require.Error(t, err)
	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 2, ee.Code())
}

func TestNewScanCmdDeepForwardsToAudit(t *testing.T) {
	cmd := newScanCmd()
	assert.Equal(t, "scan <source>", cmd.Use)
	deepFlag := cmd.Flags().Lookup("deep")
	require.NotNil(t, deepFlag)
	assert.Equal(t, "false", deepFlag.DefValue)
}
