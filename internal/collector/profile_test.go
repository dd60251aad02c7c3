package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildProfileDetectsMCPServerKind(t *testing.T) {
	files := []FileEntry{
		{Path: "server.py", Content: "from mcp import Server\n\n@mcp.tool()\ndef get_weather(city: str):\n    pass"},
		{Path: "package.json", Content: `{"name": "demo", "version": "1.2.3"}`},
	}

	p := BuildProfile(files)
	assert.Equal(t, KindMCPServer, p.Kind)
	assert.Equal(t, "1.2.3", p.Version)
	assert.Contains(t, p.ToolNames, "get_weather")
}

func TestBuildProfileDetectsAgentSkillKind(t *testing.T) {
	files := []FileEntry{
		{Path: "SKILL.md", Content: "# My Skill\n\nDoes a thing."},
	}
	p := BuildProfile(files)
	assert.Equal(t, KindAgentSkill, p.Kind)
}

func TestBuildProfileDominantLanguage(t *testing.T) {
	files := []FileEntry{
		{Path: "a.go", Content: "package main"},
		{Path: "b.go", Content: "package main"},
		{Path: "c.py", Content: "print()"},
	}
	p := BuildProfile(files)
	assert.Equal(t, "go", p.Language)
}

func TestBuildProfileOnlyExtractsNamesFromMCPFingerprintedFiles(t *testing.T) {
	files := []FileEntry{
		{Path: "server.py", Content: "from mcp import Server\n\n@mcp.tool()\ndef get_weather(city: str):\n    pass"},
		{Path: "unrelated.js", Content: `const cfg = { name: "not_a_tool", description: "just config" };`},
	}

	p := BuildProfile(files)
	assert.Contains(t, p.ToolNames, "get_weather")
	assert.NotContains(t, p.ToolNames, "not_a_tool")
}

func TestExtractNamesAppliesLengthAndBlocklistFilters(t *testing.T) {
	files := []FileEntry{
		{Path: "s.py", Content: `registerTool("ok_name", handler)
registerTool("ab", handler)
registerTool("self", handler)`},
	}
	names := extractNames(files, toolNamePatterns)
	assert.Contains(t, names, "ok_name")
	assert.NotContains(t, names, "ab")
	assert.NotContains(t, names, "self")
}
