// Package config provides configuration management for the graphenectl CLI.
//
// It implements the disciplined Viper pattern where Viper stays contained
// in this package and the rest of the codebase receives explicit Config structs.
// Configuration sources are resolved in this order: flags > env > config file > defaults.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Environment selects a configuration namespace and isolates
// network and container naming.
type Environment string

const (
	EnvLocal Environment = "local"
	EnvTest  Environment = "test"
	EnvLive  Environment = "live"
)

// ParseEnvironment validates an environment name.
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(s) {
	case EnvLocal, EnvTest, EnvLive:
		return Environment(s), nil
	}
	return "", &ResolveError{Value: s, Reason: "invalid environment (must be local, test, or live)"}
}

// NodeType determines which init command runs and which key
// documents are meaningful. Full and seed nodes have no private
// validator key.
type NodeType string

const (
	NodeValidator NodeType = "validator"
	NodeFull      NodeType = "full"
	NodeSeed      NodeType = "seed"
)

// ParseNodeType validates a node type name.
func ParseNodeType(s string) (NodeType, error) {
	switch NodeType(s) {
	case NodeValidator, NodeFull, NodeSeed:
		return NodeType(s), nil
	}
	return "", &ResolveError{Value: s, Reason: "invalid node type (must be validator, full, or seed)"}
}

// Config is the explicit configuration struct.
// This is what the rest of the codebase sees.
type Config struct {
	Environment Environment
	NodeType    NodeType
	DeployDir   string
	KeysDir     string
	Image       string
	DockerBin   string
	ComposeBin  string
	Build       bool
	SkipNetwork bool
	LogTail     int
	Verbose     bool
}

// Init initializes viper with defaults and config file paths
func Init() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath("$HOME/.graphenectl")
	viper.AddConfigPath(".")

	viper.SetDefault("env", "local")
	viper.SetDefault("node-type", "validator")
	viper.SetDefault("deploy-dir", "./deployments")
	viper.SetDefault("keys-dir", "./keys")
	viper.SetDefault("image", "graphene/node:latest")
	viper.SetDefault("docker-bin", "docker")
	viper.SetDefault("compose-bin", "docker-compose")
	viper.SetDefault("build", true)
	viper.SetDefault("skip-network", false)
	viper.SetDefault("log-tail", 50)
	viper.SetDefault("verbose", false)

	viper.SetEnvPrefix("GRAPHENE")
	viper.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return nil
}

// Load reads from all sources and returns explicit Config
func Load() (*Config, error) {
	cfg := &Config{
		Environment: Environment(viper.GetString("env")),
		NodeType:    NodeType(viper.GetString("node-type")),
		DeployDir:   viper.GetString("deploy-dir"),
		KeysDir:     viper.GetString("keys-dir"),
		Image:       viper.GetString("image"),
		DockerBin:   viper.GetString("docker-bin"),
		ComposeBin:  viper.GetString("compose-bin"),
		Build:       viper.GetBool("build"),
		SkipNetwork: viper.GetBool("skip-network"),
		LogTail:     viper.GetInt("log-tail"),
		Verbose:     viper.GetBool("verbose"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures config is sane
func (c *Config) Validate() error {
	if _, err := ParseEnvironment(string(c.Environment)); err != nil {
		return err
	}

	if _, err := ParseNodeType(string(c.NodeType)); err != nil {
		return err
	}

	if c.DeployDir == "" {
		return &ResolveError{Value: "deploy-dir", Reason: "must not be empty"}
	}

	if c.KeysDir == "" {
		return &ResolveError{Value: "keys-dir", Reason: "must not be empty"}
	}

	if c.Image == "" {
		return &ResolveError{Value: "image", Reason: "must not be empty"}
	}

	if c.LogTail < 1 || c.LogTail > 10000 {
		return &ResolveError{Value: fmt.Sprintf("log-tail=%d", c.LogTail), Reason: "must be between 1 and 10000"}
	}

	return nil
}

// NetworkName returns the Docker network for an environment.
// Live keeps the bare name; other environments get a suffix so
// parallel stacks on one host stay isolated.
func (c *Config) NetworkName() string {
	if c.Environment == EnvLive {
		return "graphene-net"
	}
	return fmt.Sprintf("graphene-net-%s", c.Environment)
}
