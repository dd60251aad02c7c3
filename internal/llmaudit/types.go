// Package llmaudit implements C4: the LLM-driven audit orchestrator. It
// drives a three-phase (UNDERSTAND -> DETECT -> CLASSIFY) security audit
// against one of thirteen providers, optionally runs a second adversarial
// verification pass, and fuses multi-model runs into a consensus view.
//
// The orchestrator treats the three-phase contract as the system prompt's
// responsibility; it enforces only the response shape (a JSON object
// carrying a findings array) and the decision rules for verification and
// consensus described in spec.md sections 4.4.4-4.4.6.
package llmaudit

import (
	"time"

	"github.com/agentaudit-dev/agentaudit-cli/internal/collector"
	"github.com/agentaudit-dev/agentaudit-cli/internal/model"
)

// ProviderType is the closed set of wire formats the orchestrator speaks.
// Per DESIGN NOTES, each provider is a variant of this enum; the
// orchestrator itself never branches on provider key, only on ProviderType.
type ProviderType string

const (
	ProviderTypeAnthropic      ProviderType = "anthropic"
	ProviderTypeGemini         ProviderType = "gemini"
	ProviderTypeOpenAICompat   ProviderType = "openai-compatible"
)

// Provider is one entry in the fixed provider table (spec.md 4.4.1 / 6).
type Provider struct {
	Name         string // human name, e.g. "Anthropic"
	Key          string // provider key, e.g. "anthropic"
	EnvVar       string // environment variable holding the API key
	BaseURL      string
	DefaultModel string
	Type         ProviderType
}

// AuditRequest is everything C4 needs to run one phase-driven audit call.
type AuditRequest struct {
	SkillSlug   string
	SourceURL   string
	PackageType string
	Files       []collector.FileEntry
	Profile     collector.Profile
	Model       string // explicit model override, may be empty
}

// AuditResult is one model's raw audit output plus the bookkeeping the
// orchestrator layers on top of the provider response.
type AuditResult struct {
	Provider         Provider
	Model            string
	Report           *model.Report
	RawFindings      []rawFinding
	OutputTruncated  bool
	TokenUsage       model.TokenUsage
	Duration         time.Duration
	Err              *AuditError
}

// rawFinding is the shape the LLM emits before the enricher normalises it;
// see extract.go for the extraction path.
type rawFinding struct {
	PatternID   string `json:"pattern_id"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Confidence  string `json:"confidence"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Evidence    string `json:"evidence"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	Content     string `json:"content"`
	CWEID       string `json:"cwe_id"`
	Remediation string `json:"remediation"`
	ByDesign    bool   `json:"by_design"`
}

// rawReport is the top-level JSON shape the three-phase prompt asks the
// model to emit; extract.go's JSON extractor accepts any object carrying a
// findings array and at least one of skill_slug/risk_score/result.
type rawReport struct {
	SkillSlug   string       `json:"skill_slug"`
	RiskScore   *int         `json:"risk_score"`
	Result      string       `json:"result"`
	Findings    []rawFinding `json:"findings"`
}

// ConsensusResult is the deterministic fusion of N>1 model reports per
// spec.md 4.4.6.
type ConsensusResult struct {
	Models          []string
	RiskMin         int
	RiskMax         int
	RiskMean        float64
	SeverityUnanimous bool
	PerModelSeverity map[string]model.Severity
	Shared          []string // normalised titles that appeared in >=2 models
	Unique          map[string][]string // model -> normalised titles unique to it
}
