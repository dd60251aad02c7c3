package cli

import (
	"github.com/spf13/cobra"
)

func newDiscoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Surface configured MCP endpoints for use with audit/scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return &ExitError{code: 2, message: "discover: MCP endpoint discovery is an external collaborator (editor/config integration) not implemented by this core; pass a source directly to `audit` or `scan` instead"}
		},
	}
}

func newLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <name>",
		Short: "Query the remote skill/package registry by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return &ExitError{code: 2, message: "lookup: remote registry query is an external collaborator not implemented by this core; resolve the package to a git URL or local path and pass it to `audit` or `scan` instead"}
		},
	}
}
