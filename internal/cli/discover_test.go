package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverStubReturnsNotImplementedExitError(t *testing.T) {
	cmd := newDiscoverCmd()
	err := cmd.RunE(cmd, nil)
	require.Error(t, err)
	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 2, ee.Code())
	assert.Contains(t, ee.Message(), "discover")
}

func TestLookupStubReturnsNotImplementedExitError(t *testing.T) {
	cmd := newLookupCmd()
	err := cmd.RunE(cmd, []string{"some-skill"})
	require.Error(t, err)
	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 2, ee.Code())
	assert.Contains(t, ee.Message(), "lookup")
}

func TestNewRootRegistersAllSixCommands(t *testing.T) {
	root := NewRoot("test")
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"audit", "scan", "discover", "lookup", "report", "config"} {
		assert.True(t, names[want], "expected %q command to be registered", want)
	}
}
