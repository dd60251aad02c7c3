package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSetThenGetRoundTrips(t *testing.T) {
	t.Setenv("AGENTAUDIT_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	setCmd := newConfigSetCmd()
	setCmd.SetArgs([]string{"preferred_provider", "anthropic"})
	require.NoError(t, setCmd.Execute())

	getCmd := newConfigGetCmd()
	_, out, _ := testCmd()
	getCmd.SetOut(out)
	require.NoError(t, getCmd.RunE(getCmd, nil))
	assert.Contains(t, out.String(), "preferred_provider: anthropic")
}

func TestConfigSetRejectsUnknownKey(t *testing.T) {
	t.Setenv("AGENTAUDIT_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	setCmd := newConfigSetCmd()
	setCmd.SetArgs([]string{"bogus_key", "value"})
	setCmd.SilenceErrors = true
	setCmd.SilenceUsage = true
	err := setCmd.Execute()
	require.Error(t, err)
	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 2, ee.Code())
}

func TestConfigSetRejectsInvalidOutputFormat(t *testing.T) {
	t.Setenv("AGENTAUDIT_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	setCmd := newConfigSetCmd()
	setCmd.SetArgs([]string{"output_format", "xml"})
	setCmd.SilenceErrors = true
	setCmd.SilenceUsage = true
	err := setCmd.Execute()
	require.Error(t, err)
	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 2, ee.Code())
}
