package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/agentaudit-dev/agentaudit-cli/internal/model"
	"github.com/agentaudit-dev/agentaudit-cli/internal/reportio"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "report <path>",
		Short: "Re-render a persisted Report JSON file as markdown or SARIF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, args[0], format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "markdown", "output format: markdown|sarif")
	return cmd
}

func runReport(cmd *cobra.Command, path, format string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ExitError{code: 2, message: fmt.Sprintf("read report: %v", err)}
	}

	var r model.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return &ExitError{code: 2, message: fmt.Sprintf("parse report: %v", err)}
	}

	switch format {
	case "sarif":
		out, err := reportio.MarshalSARIF(&r)
		if err != nil {
			return &ExitError{code: 2, message: fmt.Sprintf("render sarif: %v", err)}
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	case "markdown", "":
		fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(&r))
	default:
		return &ExitError{code: 2, message: fmt.Sprintf("unsupported --format %q (want markdown or sarif)", format)}
	}
	return nil
}

// renderMarkdown gives a persisted Report a human-readable summary; it is
// deliberately plain (a heading, a summary line, one bullet per finding)
// rather than a templated document, matching the low-ceremony reports the
// scan/audit commands already print to a terminal.
func renderMarkdown(r *model.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.SkillSlug)
	fmt.Fprintf(&b, "**Result:** %s · **Risk score:** %d · **Max severity:** %s · **Findings:** %d\n\n", r.Result, r.RiskScore, r.MaxSeverity, r.FindingsCount)
	for _, f := range r.Findings {
		loc := ""
		if f.File != "" {
			loc = fmt.Sprintf(" (%s:%d)", f.File, f.Line)
		}
		fmt.Fprintf(&b, "- **[%s] %s**%s — %s\n", f.Severity, f.Title, loc, f.Description)
	}
	return b.String()
}
