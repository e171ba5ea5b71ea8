// Package cli implements the graphenectl command surface.
package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/graphene-chain/graphene-control-plane/internal/config"
	"github.com/graphene-chain/graphene-control-plane/internal/docker"
	"github.com/graphene-chain/graphene-control-plane/internal/lifecycle"
)

var rootCmd = &cobra.Command{
	Use:   "graphenectl",
	Short: "Manage Graphene node identity and deployments",
	Long: `graphenectl bootstraps a consensus node's cryptographic identity and
manages the lifecycle of its validator and sentry service groups
across local, test, and live environments.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("env", "e", "", "Target environment (local|test|live)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Trace every subprocess invocation")

	viper.BindPFlag("env", rootCmd.PersistentFlags().Lookup("env"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(showNodeIDCmd)
	rootCmd.AddCommand(showValidatorCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the subprocess trace logger. Quiet by default so
// normal runs show only the color output.
func newLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.WarnLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func newController(cfg *config.Config) *lifecycle.Controller {
	runner := docker.NewCLIRunner(newLogger(cfg))
	return &lifecycle.Controller{
		Cfg:     cfg,
		Compose: docker.NewCompose(cfg.ComposeBin, runner),
		Runner:  runner,
	}
}

// reportSummary prints per-group outcomes and maps the aggregate
// status to the process exit code.
func reportSummary(s *lifecycle.Summary) error {
	for _, r := range s.Results {
		if r.Err != nil {
			color.Red("✗ %s: %v", r.Group, r.Err)
		} else {
			color.Green("✓ %s", r.Group)
		}
	}

	if s.Failed() {
		color.Red("✗ %s failed", s.Action)
		return errSummaryFailed
	}
	if failed := s.FailedGroups(); len(failed) > 0 {
		color.Yellow("⚠ %s completed with %d group failure(s) (tolerated)", s.Action, len(failed))
	} else {
		color.Green("✓ %s completed", s.Action)
	}
	return nil
}

type summaryError struct{}

func (summaryError) Error() string { return "one or more service groups failed" }

var errSummaryFailed = summaryError{}
