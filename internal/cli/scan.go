package cli

import (
	"github.com/agentaudit-dev/agentaudit-cli/internal/collector"
	"github.com/agentaudit-dev/agentaudit-cli/internal/enrich"
	"github.com/agentaudit-dev/agentaudit-cli/internal/model"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	flags := &auditFlags{}
	var deep bool
	cmd := &cobra.Command{
		Use:   "scan <source>",
		Short: "Run C1+C3 only (pattern scan, no LLM); --deep forwards to audit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if deep {
				return runAudit(cmd, args[0], flags)
			}
			return runScan(cmd, args[0], flags.format, flags.debug)
		},
	}
	cmd.Flags().BoolVar(&deep, "deep", false, "run the full audit pipeline instead of the static-only scan")
	flags.register(cmd)
	return cmd
}

func runScan(cmd *cobra.Command, src, format string, debug bool) error {
	configureLogging(debug)
	ctx := cmd.Context()

	c, err := collectSource(ctx, src)
	if err != nil {
		return err
	}
	defer c.resolved.Cleanup()

	report := model.NewReport(c.slug, c.resolved.SourceURL, collector.SourceHash(c.files))
	report.PackageType = string(c.profile.Kind)
	report.CommitSHA = c.resolved.CommitSHA
	report.Findings = staticFindings(c)

	noteCacheAndRecord(cmd, c.resolved.SourceURL, report.SourceHash)

	enrich.Enrich(report, c.files)

	if err := writeReport(cmd, report, format); err != nil {
		return err
	}
	return exitForReport(report)
}
