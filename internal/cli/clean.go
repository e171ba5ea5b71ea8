package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/graphene-chain/graphene-control-plane/internal/config"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all service groups including named volumes",
	Long: `Stop every service group, then remove its containers and named
volumes. This deletes chain data and is irreversible. Individual group
failures are tolerated: teardown keeps going.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		fs, err := config.Resolve(cfg)
		if err != nil {
			return err
		}

		color.Yellow("⚠ Removing containers AND named volumes for %s", cfg.Environment)

		summary, err := newController(cfg).Clean(cmd.Context(), fs)
		if err != nil {
			color.Red("✗ Clean aborted: %v", err)
			return err
		}

		return reportSummary(summary)
	},
}
