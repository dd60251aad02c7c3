package cli

import (
	"github.com/spf13/cobra"
)

// NewRoot builds the agentaudit command tree. The root carries no
// persistent flags: the provider/model/verification knobs shared by audit
// and scan are registered on each of those commands through auditFlags.
func NewRoot(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "agentaudit",
		Short:         "agentaudit: security scanner for AI-agent packages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = version
	cmd.SetVersionTemplate("agentaudit {{.Version}}\n")

	cmd.AddCommand(newAuditCmd())
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newDiscoverCmd())
	cmd.AddCommand(newLookupCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}
