package toolpoison

import (
	"regexp"
	"strings"

	"github.com/agentaudit-dev/agentaudit-cli/internal/collector"
)

// descriptionWindow bounds how far past a tool-name match extract.go looks
// for a paired description/docstring, so a match late in a large file can't
// pull in an unrelated tool's text.
const descriptionWindow = 400

// objectLiteralPattern captures both name and description from a single
// `{ name: "...", description: "..." }` object literal in one pass (the
// sibling of collector.toolNamePatterns' name-only variant of the same
// shape), because object literals reliably carry both fields adjacently.
var objectLiteralPattern = regexp.MustCompile(`\{\s*name:\s*["'](\w[\w-]{1,60})["']\s*,\s*description:\s*["']([^"']*)["']`)

// decoratorDefPattern mirrors collector's decorator-then-def tool name
// pattern but also captures the function body's opening triple-quoted
// docstring, if present, as the tool's description.
var decoratorDefPattern = regexp.MustCompile(`(?m)@\w*\.?tool\(\s*\)\s*\n\s*(?:async\s+)?def\s+(\w+)\([^)]*\)(?:\s*->\s*\w+)?:\s*\n\s*(?:"""([\s\S]*?)"""|'''([\s\S]*?)''')?`)

// registerToolPattern mirrors collector's registration-call tool name
// pattern, keeping the tail of the call available for description lookup.
var registerToolPattern = regexp.MustCompile(`(?i)(?:register|add)[_-]?tool\(\s*["'](\w[\w-]{1,60})["']`)

// toolConstructorPattern mirrors collector's Tool(name="...") constructor
// pattern.
var toolConstructorPattern = regexp.MustCompile(`Tool\(\s*name\s*=\s*["'](\w[\w-]{1,60})["']`)

// nearbyDescriptionPattern finds a description="..."/description: "..." key
// within the trailing window after a name match that didn't carry its
// description inline.
var nearbyDescriptionPattern = regexp.MustCompile(`description\s*[:=]\s*["']([^"']*)["']`)

// ExtractTools scans every collected file that carries an MCP SDK
// fingerprint for tool definitions, using the same regex forms collector
// uses to populate Profile.ToolNames (decorator-then-def, registration
// call, Tool(name=...) constructor, object literal), but additionally
// recovering each tool's description so the detector has text to inspect.
// Input schemas are not extracted: every returned tool has a nil
// InputSchema, which the detector's schema-manipulation scanner treats as
// "no schema to inspect", not a finding.
func ExtractTools(files []collector.FileEntry) []ToolDefinition {
	seen := map[string]bool{}
	var tools []ToolDefinition

	for _, f := range files {
		if !looksLikeMCPSource(f.Content) {
			continue
		}

		for _, m := range objectLiteralPattern.FindAllStringSubmatch(f.Content, -1) {
			addTool(&tools, seen, m[1], m[2])
		}

		for _, m := range decoratorDefPattern.FindAllStringSubmatch(f.Content, -1) {
			desc := firstNonEmpty(m[2], m[3])
			addTool(&tools, seen, m[1], strings.TrimSpace(desc))
		}

		for _, m := range registerToolPattern.FindAllStringSubmatchIndex(f.Content, -1) {
			name := f.Content[m[2]:m[3]]
			addTool(&tools, seen, name, descriptionAfter(f.Content, m[1]))
		}

		for _, m := range toolConstructorPattern.FindAllStringSubmatchIndex(f.Content, -1) {
			name := f.Content[m[2]:m[3]]
			addTool(&tools, seen, name, descriptionAfter(f.Content, m[1]))
		}
	}

	return tools
}

func addTool(tools *[]ToolDefinition, seen map[string]bool, name, description string) {
	if len(name) < 3 || len(name) > 49 || seen[name] {
		return
	}
	seen[name] = true
	*tools = append(*tools, ToolDefinition{Name: name, Description: description})
}

func descriptionAfter(content string, from int) string {
	end := from + descriptionWindow
	if end > len(content) {
		end = len(content)
	}
	m := nearbyDescriptionPattern.FindStringSubmatch(content[from:end])
	if m == nil {
		return ""
	}
	return m[1]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func looksLikeMCPSource(content string) bool {
	lower := strings.ToLower(content)
	for _, fp := range []string{
		"@modelcontextprotocol/sdk", "mcp.server.fastmcp", "from mcp import",
		"mcp_server", "mark3labs/mcp-go", "modelcontextprotocol",
	} {
		if strings.Contains(lower, fp) {
			return true
		}
	}
	return false
}
