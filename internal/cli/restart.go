package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/graphene-chain/graphene-control-plane/internal/config"
)

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Stop then redeploy all service groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		fs, err := config.Resolve(cfg)
		if err != nil {
			return err
		}

		color.Cyan("Restarting %s environment...", cfg.Environment)

		summary, err := newController(cfg).Restart(cmd.Context(), fs)
		if err != nil {
			color.Red("✗ Restart aborted: %v", err)
			return err
		}

		return reportSummary(summary)
	},
}
