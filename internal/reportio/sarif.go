package reportio

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/agentaudit-dev/agentaudit-cli/internal/model"
)

const sarifVersion = "2.1.0"
const sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/Schemata/sarif-schema-2.1.0.json"
const toolName = "AgentAudit"

// sarifLog is the top-level SARIF 2.1.0 document: a single run, one driver.
// Hand-rolled rather than pulled from a SARIF-writer dependency: none of
// the retrieved example repos imports one (checked every go.mod/go.sum in
// the pack), so this struct set is grounded directly on spec.md section 6
// rather than on a third-party schema library.
type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name  string      `json:"name"`
	Rules []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string                    `json:"id"`
	Name                 string                    `json:"name,omitempty"`
	ShortDescription     sarifText                 `json:"shortDescription"`
	DefaultConfiguration sarifRuleConfig           `json:"defaultConfiguration"`
	Properties           map[string]any            `json:"properties,omitempty"`
}

type sarifRuleConfig struct {
	Level string `json:"level"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID              string                 `json:"ruleId"`
	Level               string                 `json:"level"`
	Message             sarifText              `json:"message"`
	Locations           []sarifLocation        `json:"locations,omitempty"`
	Fixes               []sarifFix             `json:"fixes,omitempty"`
	Suppressions        []sarifSuppression     `json:"suppressions,omitempty"`
	PartialFingerprints map[string]string      `json:"partialFingerprints"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int           `json:"startLine,omitempty"`
	Snippet   *sarifText    `json:"snippet,omitempty"`
}

type sarifFix struct {
	Description sarifText `json:"description"`
}

type sarifSuppression struct {
	Kind string `json:"kind"`
}

// severityLevel maps a Finding's Severity to SARIF's three-level scale
// (spec.md section 6: critical/high -> error, medium/warning -> warning,
// low/info -> note).
func severityLevel(s model.Severity) string {
	switch s {
	case model.SeverityCritical, model.SeverityHigh:
		return "error"
	case model.SeverityMedium, model.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// securitySeverityScore maps Severity to the numeric
// properties["security-severity"] score GitHub code scanning reads.
func securitySeverityScore(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "9.5"
	case model.SeverityHigh:
		return "8.0"
	case model.SeverityMedium:
		return "5.5"
	case model.SeverityLow:
		return "2.0"
	default:
		return "0.5"
	}
}

// MarshalSARIF renders r as a single-run SARIF 2.1.0 document.
func MarshalSARIF(r *model.Report) ([]byte, error) {
	rules := buildRules(r.Findings)
	results := make([]sarifResult, 0, len(r.Findings))
	for _, f := range r.Findings {
		results = append(results, buildResult(f))
	}

	log := sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{Driver: sarifDriver{Name: toolName, Rules: rules}},
				Results: results,
			},
		},
	}

	return marshalIndent(log)
}

// buildRules returns one sarifRule per unique pattern_id, sorted by
// pattern_id, so SARIF consumers that render a rules table see a stable order.
// A rule's description and level come from the first finding with that id.
func buildRules(findings []model.Finding) []sarifRule {
	seen := make(map[string]bool)
	var rules []sarifRule
	for _, f := range findings {
		if f.PatternID == "" || seen[f.PatternID] {
			continue
		}
		seen[f.PatternID] = true
		rules = append(rules, sarifRule{
			ID:               f.PatternID,
			ShortDescription: sarifText{Text: f.Title},
			DefaultConfiguration: sarifRuleConfig{Level: severityLevel(f.Severity)},
			Properties: map[string]any{
				"security-severity": securitySeverityScore(f.Severity),
			},
		})
	}
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

func buildResult(f model.Finding) sarifResult {
	res := sarifResult{
		RuleID:  f.PatternID,
		Level:   severityLevel(f.Severity),
		Message: sarifText{Text: f.Title + ": " + f.Description},
	}

	if f.File != "" {
		loc := sarifPhysicalLocation{ArtifactLocation: sarifArtifactLocation{URI: f.File}}
		if f.Line > 0 || f.Content != "" {
			region := &sarifRegion{}
			if f.Line > 0 {
				region.StartLine = f.Line
			}
			if f.Content != "" {
				region.Snippet = &sarifText{Text: f.Content}
			}
			loc.Region = region
		}
		res.Locations = []sarifLocation{{PhysicalLocation: loc}}
	}

	if f.Remediation != "" {
		res.Fixes = []sarifFix{{Description: sarifText{Text: f.Remediation}}}
	}

	if f.ByDesign {
		res.Suppressions = []sarifSuppression{{Kind: "inSource"}}
	}

	res.PartialFingerprints = map[string]string{
		"primaryLocationLineHash": fingerprintHash(f),
	}

	return res
}

// fingerprintHash is SHA-256 of "ruleId:file:line" (or "ruleId:title" when
// file/line are unset), truncated to 16 hex characters, per spec.md
// section 6. Two findings with equal (pattern_id, file, line) therefore
// always produce the same hash.
func fingerprintHash(f model.Finding) string {
	var key string
	if f.File != "" && f.Line > 0 {
		key = f.PatternID + ":" + f.File + ":" + strconv.Itoa(f.Line)
	} else {
		key = f.PatternID + ":" + f.Title
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:16]
}

func marshalIndent(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sarif: %w", err)
	}
	return b, nil
}
