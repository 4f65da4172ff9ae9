// Package cli defines the command-line interface for tfc-nocode-deploy.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/config"
	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/deploy"
	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/logging"
	"github.com/takescoop/terraform-cloud-nocode-deploy/internal/tfc"
)

// Execute builds the root command, runs it with the provided args and
// logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.New(os.Stderr, slog.LevelInfo)
	}

	rootCmd := newRootCommand(logger)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// newRootCommand constructs the single-command CLI. The deployment result
// is the only thing written to stdout; logs go to stderr.
func newRootCommand(logger *slog.Logger) *cobra.Command {
	cfg := &config.Config{}

	var logLevel string

	cmd := &cobra.Command{
		Use:   "tfc-nocode-deploy",
		Short: "Deploy a published module to a Terraform Cloud workspace without local configuration",
		Long: "tfc-nocode-deploy creates or reuses a Terraform Cloud workspace, attaches a published " +
			"registry module as its configuration source, uploads variables and queues a run. " +
			"Credentials come from TFC_TOKEN and TFC_ORG.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger = logging.New(cmd.ErrOrStderr(), logging.ParseLevel(logLevel))

			if err := cfg.LoadEnvironment(); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			client, err := tfc.NewClient(&tfc.Config{Address: cfg.Address, Token: cfg.Token})
			if err != nil {
				return err
			}

			result, err := deploy.New(client, cfg, logger).Run(cmd.Context())
			if err != nil {
				return err
			}

			out, err := json.Marshal(result)
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.Address, "url", "u", config.DefaultAddress, "Terraform Enterprise API URL, ending in /api/v2")
	flags.StringVarP(&cfg.Workspace, "workspace", "w", "", "Workspace name, read before creating (TFC_WORKSPACE when unset)")
	flags.StringVarP(&cfg.Prefix, "prefix", "p", "", "Workspace name prefix; a random UUID suffix makes the name unique")
	flags.StringVarP(&cfg.Module, "module", "m", "", "Registry module ID, e.g. private/<org>/<name>/<provider>/<version>")
	flags.StringVarP(&cfg.VariablesFile, "variables", "v", "", "Path to a KEY=VALUE file of workspace variables")
	flags.StringVarP(&cfg.SensitiveFile, "sensitive", "s", "", "Path to a KEY=VALUE file of sensitive workspace variables")
	flags.StringVar(&cfg.TerraformVersion, "terraform-version", "", "Terraform version for a newly created workspace")
	flags.BoolVar(&cfg.AutoApply, "auto-apply", true, "Auto-apply runs on the workspace")
	flags.StringVar(&cfg.Message, "message", "", "Message attached to the queued run")
	flags.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	return cmd
}
