package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/graphene-chain/graphene-control-plane/internal/config"
	"github.com/graphene-chain/graphene-control-plane/internal/docker"
	"github.com/graphene-chain/graphene-control-plane/internal/keys"
)

// applyNodeType overrides the configured node type from a per-command
// flag. The same viper key cannot be bound to flags on sibling
// commands, so the override is explicit.
func applyNodeType(cmd *cobra.Command, cfg *config.Config) error {
	if !cmd.Flags().Changed("node-type") {
		return nil
	}
	raw, _ := cmd.Flags().GetString("node-type")
	nt, err := config.ParseNodeType(raw)
	if err != nil {
		return err
	}
	cfg.NodeType = nt
	return nil
}

func newBootstrapper(cfg *config.Config) *keys.Bootstrapper {
	return &keys.Bootstrapper{
		Client: docker.NewClient(cfg.DockerBin, docker.NewCLIRunner(newLogger(cfg))),
		Cfg:    cfg,
	}
}

var showNodeIDCmd = &cobra.Command{
	Use:   "show-node-id",
	Short: "Display the node's network-layer peer ID",
	Long: `Mount the locally persisted identity key read-only into a disposable
container and print the derived peer ID. Requires key material that has
not yet been purged by a validator bootstrap.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if err := applyNodeType(cmd, cfg); err != nil {
			return err
		}

		id, err := newBootstrapper(cfg).ShowNodeID(cmd.Context())
		if err != nil {
			color.Red("✗ %v", err)
			return err
		}

		fmt.Printf("Peer ID: %s\n", id)
		return nil
	},
}

var showValidatorCmd = &cobra.Command{
	Use:   "show-validator",
	Short: "Display the validator address and public key",
	Long: `Read the locally persisted private validator key and print the
derived address and base64 public key. After a completed validator
bootstrap the local copy is purged, and this command reports that the
identity has already been transported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if err := applyNodeType(cmd, cfg); err != nil {
			return err
		}

		address, pubKey, err := newBootstrapper(cfg).ShowValidator()
		if err != nil {
			color.Red("✗ %v", err)
			return err
		}

		fmt.Printf("Validator address: %s\n", address)
		fmt.Printf("Public key:        %s\n", pubKey)
		return nil
	},
}

func init() {
	showNodeIDCmd.Flags().StringP("node-type", "t", "", "Node type (validator|full|seed)")
	showValidatorCmd.Flags().StringP("node-type", "t", "", "Node type (validator|full|seed)")
}
