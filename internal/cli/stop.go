package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/graphene-chain/graphene-control-plane/internal/config"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop all service groups",
	Long: `Stop every service group's containers, leaving networks and volumes
intact. Individual group failures are tolerated: teardown keeps going.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		fs, err := config.Resolve(cfg)
		if err != nil {
			return err
		}

		color.Cyan("Stopping %s environment...", cfg.Environment)

		summary, err := newController(cfg).Stop(cmd.Context(), fs)
		if err != nil {
			color.Red("✗ Stop aborted: %v", err)
			return err
		}

		return reportSummary(summary)
	},
}
