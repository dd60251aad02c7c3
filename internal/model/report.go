package model

import "github.com/google/uuid"


// Result is the coarse verdict derived from RiskScore per invariant I6.
type Result string

const (
	ResultSafe    Result = "safe"
	ResultCaution Result = "caution"
	ResultUnsafe  Result = "unsafe"
)

// TokenUsage accumulates LLM token counters across every C4 call made for
// one scan, including verification and multi-model fan-out calls.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add folds other into u in place.
func (u *TokenUsage) Add(other TokenUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// VerificationMeta records aggregate outcomes of the C4 verification pass,
// present only when verification ran.
type VerificationMeta struct {
	Model            string `json:"model"`
	VerifiedCount    int    `json:"verified_count"`
	DemotedCount     int    `json:"demoted_count"`
	RejectedCount    int    `json:"rejected_count"`
	UnverifiedCount  int    `json:"unverified_count"`
	DurationSeconds  float64 `json:"duration_seconds"`
}

// ConsensusMeta records how a multi-model C4 run was fused into one finding
// set, present only when more than one model ran.
type ConsensusMeta struct {
	Models       []string `json:"models"`
	AgreedCount  int      `json:"agreed_count"`
	DisputeCount int      `json:"dispute_count"`
}

// Report is the frozen output of one scan: the authoritative record C5
// produces from every Finding that C2, C3, and C4 contributed. Everything
// downstream (JSON emission, SARIF emission, markdown rendering, registry
// upload) reads a Report and never mutates it.
type Report struct {
	ScanID         string `json:"scan_id"`
	SkillSlug      string `json:"skill_slug"`
	SourceURL      string `json:"source_url,omitempty"`
	PackageType    string `json:"package_type"`
	PackageVersion string `json:"package_version,omitempty"`
	AuditModel     string `json:"audit_model,omitempty"`
	AuditProvider  string `json:"audit_provider,omitempty"`
	CommitSHA      string `json:"commit_sha,omitempty"`
	SourceHash     string `json:"source_hash"`

	RiskScore   int      `json:"risk_score"`
	MaxSeverity Severity `json:"max_severity"`
	Result      Result   `json:"result"`

	FindingsCount int       `json:"findings_count"`
	Findings      []Finding `json:"findings"`

	TokenUsage      TokenUsage        `json:"token_usage"`
	DurationSeconds float64           `json:"duration_seconds"`
	Verification    *VerificationMeta `json:"verification,omitempty"`
	Consensus       *ConsensusMeta    `json:"consensus,omitempty"`
}

// NewReport constructs an empty Report for the given slug/source pair,
// stamped with a fresh scan_id; the caller populates Findings and calls
// Finalize before emitting it.
func NewReport(skillSlug, sourceURL, sourceHash string) *Report {
	return &Report{
		ScanID:      uuid.NewString(),
		SkillSlug:   skillSlug,
		SourceURL:   sourceURL,
		SourceHash:  sourceHash,
		MaxSeverity: SeverityNone,
		Result:      ResultSafe,
	}
}

// Finalize sanitizes every finding and recomputes RiskScore, MaxSeverity,
// Result, and FindingsCount from scratch per invariants I5-I7. It is safe
// to call more than once; the result is identical each time (I5-I7 are pure
// functions of Findings).
func (r *Report) Finalize() {
	for i := range r.Findings {
		r.Findings[i].Sanitize()
	}

	// Findings keep producer order (C2 by tool then category; C3 by file
	// then rule; C4 by LLM emission) per spec.md section 5 — the enricher
	// must preserve it, not re-sort by severity.
	score := 0
	maxSev := SeverityNone
	for _, f := range r.Findings {
		if !f.ByDesign {
			score += -f.ScoreImpact // ScoreImpact is <= 0; risk_score accumulates magnitude
		}
		if f.Severity.weight() > maxSev.weight() {
			maxSev = f.Severity
		}
	}
	if score > 100 {
		score = 100
	}

	r.RiskScore = score
	r.MaxSeverity = maxSev
	r.FindingsCount = len(r.Findings)
	r.Result = resultFor(score)
}

// resultFor implements invariant I6.
func resultFor(riskScore int) Result {
	switch {
	case riskScore <= 25:
		return ResultSafe
	case riskScore <= 50:
		return ResultCaution
	default:
		return ResultUnsafe
	}
}
