package llmaudit

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/agentaudit-dev/agentaudit-cli/internal/collector"
	"github.com/agentaudit-dev/agentaudit-cli/internal/model"
)

// maxVerifications is the cap from spec.md 4.4.5: "up to the ten highest-
// severity findings".
const maxVerifications = 10

// verifyCandidate is the subset of a Finding's fields sent to the verifier.
type verifyCandidate struct {
	Index       int
	PatternID   string
	Category    string
	Severity    string
	Title       string
	Description string
	Evidence    string
	File        string
	Line        int
}

// verifyVerdict is the wire shape the verifier emits.
type verifyVerdict struct {
	VerificationStatus     string `json:"verification_status"`
	VerifiedSeverity       string `json:"verified_severity"`
	VerifiedConfidence     string `json:"verified_confidence"`
	CodeExists             bool   `json:"code_exists"`
	CodeMatchesDescription bool   `json:"code_matches_description"`
	IsOptIn                bool   `json:"is_opt_in"`
	IsCoreFunctionality    bool   `json:"is_core_functionality"`
	AttackScenario         string `json:"attack_scenario"`
	RejectionReason        string `json:"rejection_reason"`
	Reasoning              string `json:"reasoning"`
}

// resolveVerifier picks the verifier provider/model for the --verify flag:
// "" or "self" returns the scanning provider with its default model (Audit
// then swaps in the scanning model itself); "cross" picks a
// different-family provider via PickCrossVerifier; anything else is taken
// as an explicit model override resolved through Select.
func resolveVerifier(scanner Provider, verify string) (Provider, string, error) {
	switch verify {
	case "", "self":
		return scanner, scanner.DefaultModel, nil
	case "cross":
		p, ok := PickCrossVerifier(scanner)
		if !ok {
			return Provider{}, "", &AuditError{Kind: ErrVerificationUnavail, Text: "no cross-family provider key is configured"}
		}
		return p, p.DefaultModel, nil
	default:
		return Select(verify, "")
	}
}

// runVerification issues one verification call per candidate finding, in
// the deterministic order critical -> high -> medium -> low -> info, then
// positional (spec.md section 5), and applies the decision rules in
// spec.md 4.4.5. It mutates result.Report.Findings in place and attaches a
// VerificationMeta summary.
func runVerification(ctx context.Context, result *AuditResult, req AuditRequest, verifier Provider, verifierModel string) {
	start := time.Now()
	candidates := rankForVerification(result.Report.Findings)
	if len(candidates) > maxVerifications {
		candidates = candidates[:maxVerifications]
	}

	manifestPath, manifestContent := findManifest(req.Files)

	meta := &model.VerificationMeta{Model: verifierModel}
	keep := make([]bool, len(result.Report.Findings))
	for i := range keep {
		keep[i] = true
	}

	for _, c := range candidates {
		user := buildVerifyMessage(c, req.Files, manifestPath, manifestContent)
		resp, err := call(ctx, verifier, verifierModel, systemVerifyPrompt, user)
		if err != nil {
			result.Report.Findings[c.Index].VerificationStatus = model.VerificationUnverified
			meta.UnverifiedCount++
			continue
		}

		verdict, ok := extractVerdict(resp.Text)
		if !ok {
			result.Report.Findings[c.Index].VerificationStatus = model.VerificationUnverified
			meta.UnverifiedCount++
			continue
		}

		applyVerdict(&result.Report.Findings[c.Index], verdict, keep, c.Index, meta)
	}

	filtered := result.Report.Findings[:0]
	for i, f := range result.Report.Findings {
		if keep[i] {
			filtered = append(filtered, f)
		}
	}
	result.Report.Findings = filtered

	meta.DurationSeconds = time.Since(start).Seconds()
	result.Report.Verification = meta
	result.Report.Finalize()
}

// rankForVerification returns candidates ordered critical->high->medium->
// low->info, then by original position.
func rankForVerification(findings []model.Finding) []verifyCandidate {
	out := make([]verifyCandidate, len(findings))
	for i, f := range findings {
		out[i] = verifyCandidate{
			Index: i, PatternID: f.PatternID, Category: string(f.Category),
			Severity: string(f.Severity), Title: f.Title, Description: f.Description,
			Evidence: f.Evidence, File: f.File, Line: f.Line,
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return verifyOrderWeight(out[i].Severity) > verifyOrderWeight(out[j].Severity)
	})
	return out
}

func verifyOrderWeight(sev string) int {
	switch model.Severity(sev) {
	case model.SeverityCritical:
		return 5
	case model.SeverityHigh:
		return 4
	case model.SeverityMedium:
		return 3
	case model.SeverityLow:
		return 2
	default:
		return 1
	}
}

// applyVerdict applies the decision rules from spec.md 4.4.5.
func applyVerdict(f *model.Finding, v verifyVerdict, keep []bool, idx int, meta *model.VerificationMeta) {
	original := f.Severity

	if !v.CodeExists || !v.CodeMatchesDescription {
		keep[idx] = false
		meta.RejectedCount++
		return
	}

	isHighOrCritical := original == model.SeverityCritical || original == model.SeverityHigh

	switch {
	case v.IsOptIn && isHighOrCritical:
		f.OriginalSeverity = original
		f.Severity = model.SeverityLow
		f.VerificationStatus = model.VerificationDemoted
		meta.DemotedCount++
	case v.AttackScenario == "" && isHighOrCritical:
		f.OriginalSeverity = original
		f.Severity = model.SeverityMedium
		f.VerificationStatus = model.VerificationDemoted
		meta.DemotedCount++
	default:
		f.VerificationStatus = model.VerificationVerified
		if sev := model.Severity(v.VerifiedSeverity); sevValid(sev) {
			f.Severity = sev
		}
		meta.VerifiedCount++
	}

	if conf := model.Confidence(v.VerifiedConfidence); conf == model.ConfidenceHigh || conf == model.ConfidenceMedium || conf == model.ConfidenceLow {
		f.VerifiedConfidence = conf
	}
	f.VerificationReasoning = v.Reasoning
}

func sevValid(s model.Severity) bool {
	switch s {
	case model.SeverityCritical, model.SeverityHigh, model.SeverityMedium, model.SeverityLow, model.SeverityWarning, model.SeverityInfo:
		return true
	default:
		return false
	}
}

// manifestNames mirrors collector's manifest precedence (package.json,
// pyproject.toml, setup.py, setup.cfg, Cargo.toml).
var manifestNames = []string{"package.json", "pyproject.toml", "setup.py", "setup.cfg", "Cargo.toml"}

// findManifest returns the first recognised manifest file's path and
// content among the collected files, in the same precedence collector uses
// to derive Profile.Version.
func findManifest(files []collector.FileEntry) (string, string) {
	for _, name := range manifestNames {
		for _, f := range files {
			if f.Path == name || strings.HasSuffix(f.Path, "/"+name) {
				return f.Path, f.Content
			}
		}
	}
	return "", ""
}
