package cli

import (
	"fmt"
	"strings"

	"github.com/agentaudit-dev/agentaudit-cli/internal/collector"
	"github.com/agentaudit-dev/agentaudit-cli/internal/config"
	"github.com/agentaudit-dev/agentaudit-cli/internal/enrich"
	"github.com/agentaudit-dev/agentaudit-cli/internal/llmaudit"
	"github.com/agentaudit-dev/agentaudit-cli/internal/model"
	"github.com/spf13/cobra"
)

// auditFlags is shared by `audit` and `scan --deep` so the two commands
// can't drift on flag names/defaults.
type auditFlags struct {
	model    string
	models   string
	verify   string
	noVerify bool
	format   string
	noUpload bool
	debug    bool
}

func (f *auditFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.model, "model", "", "explicit model id, e.g. claude-sonnet-4-5 (overrides the preferred-provider default)")
	cmd.Flags().StringVar(&f.models, "models", "", "comma-separated model ids for multi-model fan-out and consensus")
	cmd.Flags().StringVar(&f.verify, "verify", "self", "adversarial verification mode: self|cross|<model-id>")
	cmd.Flags().BoolVar(&f.noVerify, "no-verify", false, "skip the verification pass entirely")
	cmd.Flags().StringVar(&f.format, "format", "json", "output format: json|sarif")
	cmd.Flags().BoolVar(&f.noUpload, "no-upload", false, "do not upload the report to the registry after scanning")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "print raw provider response previews on parse failure")
}

func newAuditCmd() *cobra.Command {
	flags := &auditFlags{}
	cmd := &cobra.Command{
		Use:   "audit <source>",
		Short: "Run the full C1->C2/C3->C4->C5 security audit pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, args[0], flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runAudit(cmd *cobra.Command, src string, flags *auditFlags) error {
	configureLogging(flags.debug)
	ctx := cmd.Context()

	c, err := collectSource(ctx, src)
	if err != nil {
		return err
	}
	defer c.resolved.Cleanup()

	static := staticFindings(c)

	cfg, _ := config.Load(config.DefaultPath())

	opts := llmaudit.Options{
		ModelOverride:     flags.model,
		PreferredProvider: cfg.PreferredProvider,
		Verify:            flags.verify,
		NoVerify:          flags.noVerify,
		Debug:             flags.debug,
	}
	if opts.ModelOverride == "" {
		opts.ModelOverride = cfg.DefaultModel
	}

	req := llmaudit.AuditRequest{
		SkillSlug:   c.slug,
		SourceURL:   c.resolved.SourceURL,
		PackageType: string(c.profile.Kind),
		Files:       c.files,
		Profile:     c.profile,
	}

	var report *model.Report
	if flags.models != "" {
		modelList := splitCSV(flags.models)
		results, errs, consensus := llmaudit.MultiAudit(ctx, req, modelList, opts)
		if len(results) == 0 {
			return &ExitError{code: 2, message: fmt.Sprintf("all %d model(s) failed: %v", len(modelList), errs)}
		}
		report = primaryResult(results, modelList).Report
		report.Consensus = llmaudit.ToReportConsensusMeta(consensus)
	} else {
		result, err := llmaudit.Audit(ctx, req, opts)
		if err != nil {
			return &ExitError{code: 2, message: err.Error()}
		}
		report = result.Report
	}

	report.Findings = append(append([]model.Finding{}, static...), report.Findings...)
	report.CommitSHA = c.resolved.CommitSHA
	report.SourceHash = collector.SourceHash(c.files)

	noteCacheAndRecord(cmd, c.resolved.SourceURL, report.SourceHash)

	enrich.Enrich(report, c.files)

	if err := writeReport(cmd, report, flags.format); err != nil {
		return err
	}
	return exitForReport(report)
}

// primaryResult picks the result for the --models list's first entry,
// regardless of which model's HTTP call happened to finish first. Falls
// back to results[0] only if the requested primary model somehow has no
// result (e.g. it was the one that failed).
func primaryResult(results []*llmaudit.AuditResult, modelList []string) *llmaudit.AuditResult {
	if len(modelList) > 0 {
		for _, r := range results {
			if r.Model == modelList[0] {
				return r
			}
		}
	}
	return results[0]
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
