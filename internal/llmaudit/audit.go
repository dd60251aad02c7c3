package llmaudit

import (
	"context"
	"fmt"
	"time"

	"github.com/agentaudit-dev/agentaudit-cli/internal/model"
)

// Options configures one orchestrator invocation.
type Options struct {
	ModelOverride     string   // --model
	Models            []string // --models (multi-model fan-out)
	PreferredProvider string   // persisted preferred-provider setting
	Verify            string   // "", "self", "cross", or an explicit model id
	NoVerify          bool
	Debug             bool
}

// Audit runs one single-model three-phase audit and returns the raw
// (pre-enrichment) report plus bookkeeping. The caller (C5) is responsible
// for enrichment, scoring, and SARIF/JSON emission.
func Audit(ctx context.Context, req AuditRequest, opts Options) (*AuditResult, error) {
	modelRequest := req.Model
	if opts.ModelOverride != "" {
		modelRequest = opts.ModelOverride
	}
	provider, modelName, err := Select(modelRequest, opts.PreferredProvider)
	if err != nil {
		return nil, err
	}
	req.Model = modelName

	result, auditErr := runOne(ctx, provider, modelName, req, opts.Debug)
	if auditErr != nil {
		return nil, auditErr
	}

	if !opts.NoVerify {
		verifyProvider, verifyModel, vErr := resolveVerifier(provider, opts.Verify)
		if opts.Verify == "" || opts.Verify == "self" {
			verifyModel = modelName
		}
		if vErr != nil {
			markUnverified(result.Report)
		} else {
			runVerification(ctx, result, req, verifyProvider, verifyModel)
		}
	}

	return result, nil
}

// runOne performs the single LLM call and JSON-extraction for one model,
// against the three-phase system prompt.
func runOne(ctx context.Context, provider Provider, modelName string, req AuditRequest, debug bool) (*AuditResult, *AuditError) {
	start := time.Now()
	user := buildUserMessage(req)

	guard := checkContext(modelName, systemAuditPrompt, user)
	if guard.Err != nil {
		return nil, guard.Err
	}

	resp, callErr := call(ctx, provider, modelName, systemAuditPrompt, user)
	if callErr != nil {
		return nil, callErr
	}

	raw, ok := extractReport(resp.Text)
	if !ok {
		preview := resp.Text
		if debug && len(preview) > 2000 {
			preview = preview[:2000]
		}
		return nil, &AuditError{
			Kind: ErrProviderParse,
			Text: "model response did not contain a JSON object with a findings array",
			Hint: previewHint(debug, preview),
		}
	}

	report := model.NewReport(req.SkillSlug, req.SourceURL, "")
	report.PackageType = req.PackageType
	report.AuditModel = modelName
	report.AuditProvider = provider.Key
	report.Findings = convertFindings(raw.Findings)
	report.TokenUsage = model.TokenUsage{
		PromptTokens:     resp.PromptTokens,
		CompletionTokens: resp.CompletionTokens,
		TotalTokens:      resp.PromptTokens + resp.CompletionTokens,
	}
	report.DurationSeconds = time.Since(start).Seconds()

	return &AuditResult{
		Provider:        provider,
		Model:           modelName,
		Report:          report,
		RawFindings:     raw.Findings,
		OutputTruncated: resp.Truncated,
		TokenUsage:      report.TokenUsage,
		Duration:        time.Since(start),
	}, nil
}

func previewHint(debug bool, preview string) string {
	if !debug {
		return "re-run with --debug to see the first 2000 characters of the raw response"
	}
	return fmt.Sprintf("raw response preview: %q", preview)
}

// convertFindings maps the LLM's rawFinding wire shape onto model.Finding.
// Severity/confidence/file/line sanitisation happens uniformly in C5's
// enricher, not here — C4's job is field mapping only.
func convertFindings(raw []rawFinding) []model.Finding {
	out := make([]model.Finding, 0, len(raw))
	for _, rf := range raw {
		out = append(out, model.Finding{
			PatternID:   rf.PatternID,
			Category:    model.Category(rf.Category),
			Severity:    model.Severity(rf.Severity),
			Confidence:  model.Confidence(rf.Confidence),
			Title:       rf.Title,
			Description: rf.Description,
			Evidence:    rf.Evidence,
			File:        rf.File,
			Line:        rf.Line,
			Content:     rf.Content,
			CWEID:       rf.CWEID,
			Remediation: rf.Remediation,
			ByDesign:    rf.ByDesign,
		})
	}
	return out
}

// markUnverified sets every finding's VerificationStatus to "unverified"
// when the verifier provider is unavailable (spec.md 7:
// verification.unavailable — "the pass is skipped and findings retain
// status unverified").
func markUnverified(r *model.Report) {
	for i := range r.Findings {
		r.Findings[i].VerificationStatus = model.VerificationUnverified
	}
}
