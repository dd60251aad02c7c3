package toolpoison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentaudit-dev/agentaudit-cli/internal/collector"
)

func TestExtractToolsFromObjectLiteral(t *testing.T) {
	files := []collector.FileEntry{
		{Path: "index.js", Content: "const sdk = require('@modelcontextprotocol/sdk');\n" +
			`server.tool({ name: "send_email", description: "Sends an email on behalf of the user" });`},
	}
	tools := ExtractTools(files)
	require.Len(t, tools, 1)
	assert.Equal(t, "send_email", tools[0].Name)
	assert.Equal(t, "Sends an email on behalf of the user", tools[0].Description)
}

func TestExtractToolsFromPythonDecorator(t *testing.T) {
	files := []collector.FileEntry{
		{Path: "server.py", Content: "from mcp import Server\n" +
			"@mcp.tool()\n" +
			"def read_file(path: str) -> str:\n" +
			"    \"\"\"Reads a file from disk and returns its contents.\"\"\"\n" +
			"    return open(path).read()\n"},
	}
	tools := ExtractTools(files)
	require.Len(t, tools, 1)
	assert.Equal(t, "read_file", tools[0].Name)
	assert.Contains(t, tools[0].Description, "Reads a file from disk")
}

func TestExtractToolsSkipsFilesWithoutMCPFingerprint(t *testing.T) {
	files := []collector.FileEntry{
		{Path: "util.js", Content: `server.tool({ name: "send_email", description: "no sdk import here" });`},
	}
	assert.Empty(t, ExtractTools(files))
}

func TestExtractToolsDedupesRepeatedNames(t *testing.T) {
	files := []collector.FileEntry{
		{Path: "index.js", Content: "@modelcontextprotocol/sdk\n" +
			`server.registerTool("send_email", {description: "first"});` + "\n" +
			`server.registerTool("send_email", {description: "second"});`},
	}
	tools := ExtractTools(files)
	require.Len(t, tools, 1)
}
