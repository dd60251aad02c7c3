package toolpoison

import (
	"github.com/agentaudit-dev/agentaudit-cli/internal/model"
)

const disclaimer = "Static tool-poisoning analysis is heuristic; absence of findings is not proof of safety."

const maxFieldScanBytes = 50000

// Summary aggregates the detector's run over one batch of tools, per the
// orchestration contract in spec.md ("tools_scanned, counts by severity,
// counts by category, risk_level, clean, disclaimer").
type Summary struct {
	ToolsScanned     int                    `json:"tools_scanned"`
	BySeverity       map[string]int         `json:"by_severity"`
	ByCategory       map[string]int         `json:"by_category"`
	RiskLevel        string                 `json:"risk_level"`
	Clean            bool                   `json:"clean"`
	Disclaimer       string                 `json:"disclaimer"`
}

// Detector scans MCP Tool Definitions across the eight categories described
// in spec.md §4.2. It is stateless and safe for concurrent use.
type Detector struct{}

// NewDetector constructs a Detector. There is no configuration: the pattern
// packs are fixed data, matching the teacher's NewDetector().
func NewDetector() *Detector {
	return &Detector{}
}

// Inspect runs every category scan over tools and returns the findings plus
// a run Summary. Per-tool scans (unicode/injection/obfuscation/homoglyph/
// url/schema) run in the fixed order inspectOne calls them in; the batch
// scans (length, cross-tool) run once over the whole slice, matching the
// Orchestration contract.
func (d *Detector) Inspect(tools []ToolDefinition) ([]model.Finding, Summary) {
	perTool := make([][]DetectionResult, len(tools))

	for i, tool := range tools {
		perTool[i] = append(perTool[i], d.inspectOne(tool)...)
	}

	lengthResults := scanLength(tools)
	crossToolResults := scanCrossTool(tools)
	for i := range tools {
		perTool[i] = append(perTool[i], lengthResults[i]...)
		perTool[i] = append(perTool[i], crossToolResults[i]...)
	}

	// Findings keep producer order: by tool (input order), then by category
	// (the fixed scan order inspectOne/scanLength/scanCrossTool append in),
	// per spec.md section 5 — never re-sorted by severity.
	var findings []model.Finding
	for i, tool := range tools {
		for _, r := range perTool[i] {
			findings = append(findings, toFinding(tool.Name, r))
		}
	}

	return findings, summarize(tools, findings)
}

func (d *Detector) inspectOne(tool ToolDefinition) []DetectionResult {
	var results []DetectionResult

	name := truncateField(tool.Name)
	description := truncateField(tool.Description)

	if r := scanHiddenUnicode("name", name); r != nil {
		results = append(results, *r)
	}
	if r := scanHiddenUnicode("description", description); r != nil {
		results = append(results, *r)
	}

	results = append(results, scanInjection("description", description)...)
	results = append(results, scanObfuscation("description", description)...)

	if r := scanHomoglyph("name", name); r != nil {
		results = append(results, *r)
	}
	if r := scanHomoglyph("description", description); r != nil {
		results = append(results, *r)
	}

	results = append(results, scanSuspiciousURL("description", description)...)
	results = append(results, scanSchema(tool.InputSchema)...)

	return results
}

func truncateField(s string) string {
	if len(s) <= maxFieldScanBytes {
		return s
	}
	return s[:maxFieldScanBytes]
}

func toFinding(toolName string, r DetectionResult) model.Finding {
	f := model.Finding{
		PatternID:   r.PatternID,
		Category:    model.Category(r.Category),
		Severity:    model.Severity(r.Severity),
		Confidence:  model.ConfidenceHigh,
		Title:       r.Title,
		Description: r.Description,
		Evidence:    r.Evidence,
		File:        "", // tool definitions have no file; set by caller if relevant
	}
	if toolName != "" {
		if f.Evidence != "" {
			f.Evidence = "tool=" + toolName + " " + f.Evidence
		} else {
			f.Evidence = "tool=" + toolName
		}
	}
	f.Sanitize()
	return f
}

func severityWeight(s string) int {
	switch s {
	case "critical":
		return 6
	case "high":
		return 5
	case "medium":
		return 4
	case "warning":
		return 3
	case "low":
		return 2
	case "info":
		return 1
	default:
		return 0
	}
}

func summarize(tools []ToolDefinition, findings []model.Finding) Summary {
	s := Summary{
		ToolsScanned: len(tools),
		BySeverity:   map[string]int{},
		ByCategory:   map[string]int{},
		Disclaimer:   disclaimer,
	}

	maxWeight := 0
	for _, f := range findings {
		s.BySeverity[string(f.Severity)]++
		s.ByCategory[string(f.Category)]++
		if w := severityWeight(string(f.Severity)); w > maxWeight {
			maxWeight = w
		}
	}

	s.RiskLevel = riskLevelFor(maxWeight)
	s.Clean = len(findings) == 0
	return s
}

func riskLevelFor(maxWeight int) string {
	switch {
	case maxWeight >= 6:
		return "critical"
	case maxWeight >= 5:
		return "high"
	case maxWeight >= 4:
		return "medium"
	case maxWeight >= 1:
		return "low"
	default:
		return "none"
	}
}
