package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/graphene-chain/graphene-control-plane/internal/config"
	"github.com/graphene-chain/graphene-control-plane/internal/docker"
	"github.com/graphene-chain/graphene-control-plane/internal/keys"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap the node's cryptographic identity",
	Long: `Generate the node identity key (and for validators the private
signing key) in a one-shot container, extract and transport-encode the
key documents, and display what an operator must hand to the
whitelisting authority.

For validators the local key files are deleted after display: the
secrets survive only in the printed environment values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if err := applyNodeType(cmd, cfg); err != nil {
			return err
		}

		runner := docker.NewCLIRunner(newLogger(cfg))
		if !cfg.SkipNetwork {
			if _, err := docker.EnsureNetwork(cmd.Context(), runner, cfg.DockerBin, cfg.NetworkName()); err != nil {
				return err
			}
		}

		force, _ := cmd.Flags().GetBool("force")
		b := &keys.Bootstrapper{
			Client: docker.NewClient(cfg.DockerBin, runner),
			Cfg:    cfg,
			Force:  force,
		}

		color.Cyan("Bootstrapping %s identity for %s...", cfg.NodeType, cfg.Environment)

		res, err := b.Run(cmd.Context())
		if err != nil {
			color.Red("✗ Bootstrap failed: %v", err)
			return err
		}

		if res.Outcome == keys.OutcomeAlreadyInitialized {
			color.Red("✗ Already initialized for %s/%s", cfg.Environment, cfg.NodeType)
			color.Yellow("  Overwriting a validator identity risks double-signing.")
			color.Yellow("  Re-run with --force to regenerate anyway.")
			return fmt.Errorf("already initialized")
		}

		color.Green("✓ Identity created")

		fmt.Println("\nTransport values (inject into the node's environment):")
		fmt.Printf("  GRAPHENE_NODE_KEY=%s\n", res.NodeKeyEncoded)
		if cfg.NodeType == config.NodeValidator {
			fmt.Printf("  GRAPHENE_PRIV_VALIDATOR_KEY=%s\n", res.ValidatorEncoded)

			color.Cyan("\nHand the following to the whitelisting authority:")
			fmt.Printf("  Validator address: %s\n", res.Address)
			fmt.Printf("  Public key:        %s\n", res.PubKey)
			fmt.Printf("  Peer ID:           %s\n", res.PeerID)

			color.Yellow("\nLocal key files were deleted; keep the values above safe.")
		} else {
			fmt.Printf("\n  Peer ID: %s\n", res.PeerID)
		}

		return nil
	},
}

func init() {
	initCmd.Flags().StringP("node-type", "t", "", "Node type (validator|full|seed)")
	initCmd.Flags().Bool("force", false, "Regenerate even if key material already exists")
}
