package cli

import (
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/graphene-chain/graphene-control-plane/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate deployment configuration without starting anything",
	Long: `Resolve every service group's compose definition and layered env
files into a final configuration, reporting syntax and reference errors.
No containers, networks, or volumes are touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		fs, err := config.Resolve(cfg)
		if err != nil {
			return err
		}

		color.Cyan("Validating %s environment...", cfg.Environment)

		for _, g := range fs.Groups {
			services, err := config.ComposeServices(g.ComposeFile)
			if err != nil {
				return err
			}
			sort.Strings(services)

			env, err := config.MergedEnv(g)
			if err != nil {
				return err
			}

			color.Cyan("\n%s (project %s)", g.Name, g.Project)
			color.New().Printf("  services:      %v\n", services)
			color.New().Printf("  env layers:    %d file(s), %d effective variable(s)\n", len(g.EnvFiles), len(env))
		}

		summary, err := newController(cfg).Validate(cmd.Context(), fs)
		if err != nil {
			color.Red("✗ Validation aborted: %v", err)
			return err
		}

		return reportSummary(summary)
	},
}
