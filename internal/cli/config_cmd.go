package cli

import (
	"fmt"

	"github.com/agentaudit-dev/agentaudit-cli/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or change local defaults (preferred provider, default model, output format)",
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the current local config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.DefaultPath())
			if err != nil {
				return &ExitError{code: 2, message: fmt.Sprintf("load config: %v", err)}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "preferred_provider: %s\n", cfg.PreferredProvider)
			fmt.Fprintf(out, "default_model: %s\n", cfg.DefaultModel)
			fmt.Fprintf(out, "output_format: %s\n", cfg.OutputFormat)
			fmt.Fprintf(out, "verify: %s\n", cfg.Verify)
			fmt.Fprintf(out, "no_upload: %t\n", cfg.NoUpload)
			return nil
		},
	}
}

// configKeys enumerates the settable fields for `config set`, each paired
// with how it writes into a *config.Config.
var configKeys = map[string]func(cfg *config.Config, value string) error{
	"preferred_provider": func(cfg *config.Config, v string) error { cfg.PreferredProvider = v; return nil },
	"default_model":      func(cfg *config.Config, v string) error { cfg.DefaultModel = v; return nil },
	"output_format": func(cfg *config.Config, v string) error {
		if v != "json" && v != "sarif" {
			return fmt.Errorf("output_format must be json or sarif, got %q", v)
		}
		cfg.OutputFormat = v
		return nil
	},
	"verify": func(cfg *config.Config, v string) error { cfg.Verify = v; return nil },
	"no_upload": func(cfg *config.Config, v string) error {
		switch v {
		case "true":
			cfg.NoUpload = true
		case "false":
			cfg.NoUpload = false
		default:
			return fmt.Errorf("no_upload must be true or false, got %q", v)
		}
		return nil
	},
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one local config key (preferred_provider|default_model|output_format|verify|no_upload)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			setter, ok := configKeys[key]
			if !ok {
				return &ExitError{code: 2, message: fmt.Sprintf("unknown config key %q", key)}
			}

			path := config.DefaultPath()
			cfg, err := config.Load(path)
			if err != nil {
				return &ExitError{code: 2, message: fmt.Sprintf("load config: %v", err)}
			}
			if err := setter(cfg, value); err != nil {
				return &ExitError{code: 2, message: err.Error()}
			}
			if err := config.Save(path, cfg); err != nil {
				return &ExitError{code: 2, message: fmt.Sprintf("save config: %v", err)}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
			return nil
		},
	}
}
