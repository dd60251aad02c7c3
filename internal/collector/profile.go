package collector

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var languageByExtension = map[string]string{
	".go": "go", ".py": "python", ".js": "javascript", ".mjs": "javascript",
	".ts": "typescript", ".tsx": "typescript", ".jsx": "javascript",
	".rs": "rust", ".java": "java", ".rb": "ruby", ".php": "php",
	".c": "c", ".h": "c", ".cpp": "c++", ".cc": "c++", ".hpp": "c++",
	".cs": "c#", ".sh": "shell", ".yaml": "yaml", ".yml": "yaml", ".json": "json",
}

var mcpSDKFingerprints = []string{
	"@modelcontextprotocol/sdk",
	"mcp.server.fastmcp",
	"from mcp import",
	"mcp_server",
	"\"github.com/mark3labs/mcp-go\"",
	"modelcontextprotocol",
}

var cliFrameworkFingerprints = []string{
	"#!/usr/bin/env", "#!/bin/sh", "#!/bin/bash",
	"click.command", "argparse", "cobra.Command", "yargs", "commander.js",
}

var manifestFiles = []string{"package.json", "pyproject.toml", "setup.py", "setup.cfg", "Cargo.toml"}

var versionPatterns = map[string]*regexp.Regexp{
	"package.json":   regexp.MustCompile(`"version"\s*:\s*"([^"]+)"`),
	"pyproject.toml": regexp.MustCompile(`(?m)^version\s*=\s*"([^"]+)"`),
	"setup.py":       regexp.MustCompile(`version\s*=\s*["']([^"']+)["']`),
	"setup.cfg":      regexp.MustCompile(`(?m)^version\s*=\s*(.+)$`),
	"Cargo.toml":     regexp.MustCompile(`(?m)^version\s*=\s*"([^"]+)"`),
}

var toolNamePatterns = []*regexp.Regexp{
	// decorator-then-def: @mcp.tool() \n def tool_name(
	regexp.MustCompile(`(?m)@\w*\.?tool\(\s*\)\s*\n\s*(?:async\s+)?def\s+(\w+)`),
	// registration call: server.registerTool("name", ...) / addTool("name"
	regexp.MustCompile(`(?i)(?:register|add)[_-]?tool\(\s*["'](\w[\w-]{1,60})["']`),
	// Tool(name="...") constructor
	regexp.MustCompile(`Tool\(\s*name\s*=\s*["'](\w[\w-]{1,60})["']`),
	// object literal: { name: "...", description: "..." }
	regexp.MustCompile(`\{\s*name:\s*["'](\w[\w-]{1,60})["']\s*,\s*description`),
}

var promptNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)@\w*\.?prompt\(\s*\)\s*\n\s*(?:async\s+)?def\s+(\w+)`),
	regexp.MustCompile(`(?i)(?:register|add)[_-]?prompt\(\s*["'](\w[\w-]{1,60})["']`),
	regexp.MustCompile(`Prompt\(\s*name\s*=\s*["'](\w[\w-]{1,60})["']`),
}

var nameNoiseBlocklist = map[string]bool{
	"self": true, "cls": true, "args": true, "kwargs": true, "request": true,
	"response": true, "ctx": true, "context": true, "data": true, "input": true,
	"options": true, "config": true, "name": true, "value": true,
}

// BuildProfile derives the Package Profile from a collected file set.
func BuildProfile(files []FileEntry) Profile {
	p := Profile{Kind: KindUnknown}

	p.Language = dominantLanguage(files)
	p.Kind = classifyKind(files)
	p.Version = detectVersion(files)
	mcpFiles := filterMCPSource(files)
	p.ToolNames = extractNames(mcpFiles, toolNamePatterns)
	p.PromptNames = extractNames(mcpFiles, promptNamePatterns)
	p.Entrypoint = detectEntrypoint(files)

	return p
}

func dominantLanguage(files []FileEntry) string {
	counts := map[string]int{}
	for _, f := range files {
		lang, ok := languageByExtension[strings.ToLower(filepath.Ext(f.Path))]
		if ok {
			counts[lang]++
		}
	}
	best, bestCount := "", 0
	// sort keys for deterministic tie-break
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

func classifyKind(files []FileEntry) Kind {
	hasMCP := false
	hasSkillMD := false
	hasCLI := false

	for _, f := range files {
		lower := strings.ToLower(f.Content)
		for _, fp := range mcpSDKFingerprints {
			if strings.Contains(lower, strings.ToLower(fp)) {
				hasMCP = true
				break
			}
		}
		if strings.EqualFold(filepath.Base(f.Path), "SKILL.md") {
			hasSkillMD = true
		}
		for _, fp := range cliFrameworkFingerprints {
			if strings.Contains(f.Content, fp) {
				hasCLI = true
				break
			}
		}
	}

	switch {
	case hasMCP:
		return KindMCPServer
	case hasSkillMD:
		return KindAgentSkill
	case hasCLI:
		return KindCLITool
	default:
		return KindLibrary
	}
}

func detectVersion(files []FileEntry) string {
	byName := map[string]string{}
	for _, f := range files {
		byName[filepath.Base(f.Path)] = f.Content
	}
	for _, manifest := range manifestFiles {
		content, ok := byName[manifest]
		if !ok {
			continue
		}
		re := versionPatterns[manifest]
		m := re.FindStringSubmatch(content)
		if len(m) > 1 {
			return strings.TrimSpace(strings.Trim(m[1], `"'`))
		}
	}
	return ""
}

// filterMCPSource narrows files to those carrying an MCP SDK fingerprint,
// the same gate classifyKind uses to detect KindMCPServer. Tool/prompt-name
// extraction only makes sense against MCP source: running the same regexes
// over arbitrary non-MCP files is how a plain `{name: "x", description: "y"}`
// object literal in unrelated JSON/JS ends up misread as a tool definition.
func filterMCPSource(files []FileEntry) []FileEntry {
	var out []FileEntry
	for _, f := range files {
		lower := strings.ToLower(f.Content)
		for _, fp := range mcpSDKFingerprints {
			if strings.Contains(lower, strings.ToLower(fp)) {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

func extractNames(files []FileEntry, patterns []*regexp.Regexp) []string {
	seen := map[string]bool{}
	var names []string
	for _, f := range files {
		for _, re := range patterns {
			for _, m := range re.FindAllStringSubmatch(f.Content, -1) {
				name := m[1]
				if len(name) < 3 || len(name) > 49 {
					continue
				}
				if nameNoiseBlocklist[strings.ToLower(name)] {
					continue
				}
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
	}
	sort.Strings(names)
	return names
}

func detectEntrypoint(files []FileEntry) string {
	candidates := []string{"main.py", "index.js", "index.ts", "server.py", "server.js", "main.go", "__main__.py"}
	byPath := map[string]bool{}
	for _, f := range files {
		byPath[f.Path] = true
	}
	for _, c := range candidates {
		if byPath[c] {
			return c
		}
	}
	for _, f := range files {
		if filepath.Base(f.Path) == "main.py" || filepath.Base(f.Path) == "index.js" {
			return f.Path
		}
	}
	return ""
}
