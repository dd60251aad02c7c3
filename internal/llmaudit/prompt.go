package llmaudit

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/agentaudit-dev/agentaudit-cli/internal/collector"
)

// systemAuditPrompt and systemVerifyPrompt are loaded from disk at build
// time as opaque blobs (spec.md 4.4: "the implementation loads from disk;
// implementations must accept it as an opaque blob"). The orchestrator
// never parses or reasons about their content — only the response shape is
// its concern.
//
//go:embed prompts/system_audit.md
var systemAuditPrompt string

//go:embed prompts/system_verify.md
var systemVerifyPrompt string

// buildUserMessage concatenates a small preamble and a fenced code block
// enumerating every File Entry as "### FILE: <path>" per spec.md 4.4.
func buildUserMessage(req AuditRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Package: %s\n", req.SkillSlug)
	if req.SourceURL != "" {
		fmt.Fprintf(&b, "Source: %s\n", req.SourceURL)
	}
	fmt.Fprintf(&b, "Declared kind: %s\n", req.Profile.Kind)
	if len(req.Profile.ToolNames) > 0 {
		fmt.Fprintf(&b, "Exposed tools: %s\n", strings.Join(req.Profile.ToolNames, ", "))
	}
	fmt.Fprintf(&b, "\nBelow are the %d collected files.\n\n", len(req.Files))

	for _, f := range req.Files {
		fmt.Fprintf(&b, "### FILE: %s\n```\n%s\n```\n\n", f.Path, f.Content)
	}

	return b.String()
}

// buildVerifyMessage builds the user message for one verification call:
// the finding's fields, the cited file's full text (or an explicit absence
// marker), a file listing, and the package manifest text if present.
func buildVerifyMessage(f verifyCandidate, files []collector.FileEntry, manifestPath, manifestContent string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Finding under review:\n")
	fmt.Fprintf(&b, "  pattern_id: %s\n  category: %s\n  severity: %s\n  title: %s\n  description: %s\n  evidence: %s\n  file: %s\n  line: %d\n\n",
		f.PatternID, f.Category, f.Severity, f.Title, f.Description, f.Evidence, f.File, f.Line)

	if f.File != "" {
		found := false
		for _, fe := range files {
			if fe.Path == f.File {
				found = true
				fmt.Fprintf(&b, "### FILE: %s\n```\n%s\n```\n\n", fe.Path, fe.Content)
				break
			}
		}
		if !found {
			fmt.Fprintf(&b, "### FILE: %s is NOT present in the collected file set.\n\n", f.File)
		}
	} else {
		fmt.Fprintf(&b, "The finding cites no file.\n\n")
	}

	fmt.Fprintf(&b, "### File listing\n")
	for _, fe := range files {
		fmt.Fprintf(&b, "- %s\n", fe.Path)
	}
	b.WriteString("\n")

	if manifestPath != "" {
		fmt.Fprintf(&b, "### MANIFEST: %s\n```\n%s\n```\n", manifestPath, manifestContent)
	} else {
		b.WriteString("### No package manifest was found.\n")
	}

	return b.String()
}
