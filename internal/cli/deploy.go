package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/graphene-chain/graphene-control-plane/internal/config"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the validator and sentry service groups",
	Long: `Stop then start every service group for the target environment, in
declared order (validator group before its sentry front-end). A group's
failure does not keep sibling groups from being attempted, but the
overall result is failure if any group failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if noBuild, _ := cmd.Flags().GetBool("no-build"); noBuild {
			cfg.Build = false
		}

		fs, err := config.Resolve(cfg)
		if err != nil {
			return err
		}

		ctl := newController(cfg)

		color.Cyan("Deploying %s environment...", cfg.Environment)
		color.Cyan("Network: %s", cfg.NetworkName())

		summary, err := ctl.Deploy(cmd.Context(), fs)
		if err != nil {
			color.Red("✗ Deploy aborted: %v", err)
			return err
		}

		if err := reportSummary(summary); err != nil {
			return err
		}

		if states, err := ctl.States(cmd.Context(), fs); err == nil {
			color.Cyan("\nGroup              State")
			color.Cyan("────────────────────────────")
			for _, g := range fs.Groups {
				color.New().Printf("%-18s %s\n", g.Name, states[g.Name])
			}
		}

		if tail, _ := cmd.Flags().GetBool("logs"); tail {
			for _, g := range fs.Groups {
				color.Cyan("\n── %s logs (last %d lines) ──", g.Name, cfg.LogTail)
				out, err := ctl.TailLogs(cmd.Context(), g)
				if err != nil {
					color.Yellow("⚠ Could not read logs for %s: %v", g.Name, err)
					continue
				}
				cmd.OutOrStdout().Write(out)
			}
		}

		return nil
	},
}

func init() {
	deployCmd.Flags().Bool("no-build", false, "Skip image build on start")
	deployCmd.Flags().Bool("logs", false, "Print a bounded log tail per group after deploy")
	deployCmd.Flags().Int("tail", 50, "Number of log lines per group")

	viper.BindPFlag("log-tail", deployCmd.Flags().Lookup("tail"))
}
