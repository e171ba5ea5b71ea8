package keys

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/graphene-chain/graphene-control-plane/internal/config"
	"github.com/graphene-chain/graphene-control-plane/internal/docker"
)

const (
	nodeKeyFile      = "node_key.json"
	validatorKeyFile = "priv_validator_key.json"
	containerHome    = "/graphene"
)

// Outcome tags the result of an init attempt so the caller can apply
// policy (reject, or force-overwrite) instead of this package deciding.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeAlreadyInitialized
)

// Result is everything the operator needs after a successful bootstrap.
// For validators, the local key files are already purged by the time a
// Result is returned: the secrets live only in the encoded values.
type Result struct {
	Outcome          Outcome
	NodeKeyEncoded   string
	ValidatorEncoded string
	Address          string
	PubKey           string
	PeerID           string
}

// Bootstrapper produces node identity via one-shot containers, makes
// it available to the caller, and purges local sensitive copies after
// display.
type Bootstrapper struct {
	Client *docker.Client
	Cfg    *config.Config

	// Force overwrites an existing identity. Off by default: silently
	// regenerating a live validator's keys is a double-signing risk.
	Force bool
}

// ConfigDir is the per-(environment, node type) directory holding the
// extracted key documents between generation and purge.
func ConfigDir(cfg *config.Config) string {
	return filepath.Join(cfg.KeysDir, string(cfg.Environment), string(cfg.NodeType), "config")
}

// DataDir is the node's persistent data directory on the host.
func DataDir(cfg *config.Config) string {
	return filepath.Join(cfg.KeysDir, string(cfg.Environment), string(cfg.NodeType), "data")
}

func (b *Bootstrapper) initContainer() string {
	return fmt.Sprintf("graphene-init-%s-%s", b.Cfg.Environment, b.Cfg.NodeType)
}

func (b *Bootstrapper) dataVolume() string {
	if b.Cfg.Environment == config.EnvLive {
		return fmt.Sprintf("graphene-data-%s", b.Cfg.NodeType)
	}
	return fmt.Sprintf("graphene-data-%s-%s", b.Cfg.Environment, b.Cfg.NodeType)
}

// Initialized reports whether key material already exists for the
// configured environment and node type.
func (b *Bootstrapper) Initialized() bool {
	_, err := os.Stat(filepath.Join(ConfigDir(b.Cfg), nodeKeyFile))
	return err == nil
}

// Run executes the full bootstrap protocol. Any container-runtime
// failure aborts the whole run; the one-shot container is released on
// every exit path.
func (b *Bootstrapper) Run(ctx context.Context) (*Result, error) {
	if b.Initialized() && !b.Force {
		return &Result{Outcome: OutcomeAlreadyInitialized}, nil
	}

	cfgDir := ConfigDir(b.Cfg)
	if b.Force {
		if err := os.RemoveAll(cfgDir); err != nil {
			return nil, &BootstrapError{Step: "remove stale key material", Err: err}
		}
	}
	if err := os.MkdirAll(cfgDir, 0o700); err != nil {
		return nil, &BootstrapError{Step: "create config dir", Err: err}
	}
	if err := os.MkdirAll(DataDir(b.Cfg), 0o700); err != nil {
		return nil, &BootstrapError{Step: "create data dir", Err: err}
	}

	name := b.initContainer()

	// A stale container from an interrupted prior run would collide on
	// name; removal is best-effort.
	_ = b.Client.RemoveContainer(ctx, name)

	// The container is a scoped resource: acquired by run, released
	// unconditionally, success or not.
	defer func() {
		_ = b.Client.RemoveContainer(ctx, name)
	}()

	mounts := []docker.Mount{{Source: b.dataVolume(), Target: containerHome}}
	if output, err := b.Client.RunOneShot(ctx, name, b.Cfg.Image, mounts,
		"init", string(b.Cfg.NodeType), "--home", containerHome); err != nil {
		return nil, &BootstrapError{Step: "init " + string(b.Cfg.NodeType), Err: fmt.Errorf("%w\n%s", err, output)}
	}

	res := &Result{Outcome: OutcomeCreated}

	nodeKey, err := b.extract(ctx, name, nodeKeyFile)
	if err != nil {
		return nil, err
	}
	res.NodeKeyEncoded = EncodeTransport(nodeKey)

	if b.Cfg.NodeType == config.NodeValidator {
		valKey, err := b.extract(ctx, name, validatorKeyFile)
		if err != nil {
			return nil, err
		}
		res.ValidatorEncoded = EncodeTransport(valKey)

		if res.Address, err = ValidatorAddress(valKey); err != nil {
			return nil, err
		}
		if res.PubKey, err = ValidatorPubKey(valKey); err != nil {
			return nil, err
		}
	}

	if res.PeerID, err = b.ShowNodeID(ctx); err != nil {
		return nil, err
	}

	if b.Cfg.NodeType == config.NodeValidator {
		// Secrets exist only in the encoded values from here on.
		if err := os.RemoveAll(cfgDir); err != nil {
			return nil, &BootstrapError{Step: "purge config dir", Err: err}
		}
	}

	return res, nil
}

// extract copies one generated key document out of the init container
// and restricts it to owner read/write.
func (b *Bootstrapper) extract(ctx context.Context, container, file string) ([]byte, error) {
	dst := filepath.Join(ConfigDir(b.Cfg), file)
	src := filepath.Join(containerHome, "config", file)
	if err := b.Client.CopyFrom(ctx, container, src, dst); err != nil {
		return nil, &BootstrapError{Step: "extract " + file, Err: err}
	}
	doc, err := readRestricted(dst)
	if err != nil {
		return nil, &BootstrapError{Step: "read " + file, Err: err}
	}
	return doc, nil
}

// ShowNodeID runs a disposable read-only container that derives the
// network-layer peer ID from the generated identity key.
func (b *Bootstrapper) ShowNodeID(ctx context.Context) (string, error) {
	cfgDir, err := filepath.Abs(ConfigDir(b.Cfg))
	if err != nil {
		return "", &BootstrapError{Step: "resolve config dir", Err: err}
	}
	if _, err := os.Stat(filepath.Join(cfgDir, nodeKeyFile)); err != nil {
		return "", &BootstrapError{
			Step: "show node id",
			Err:  fmt.Errorf("no key material at %s: not initialized (or identity already transported)", cfgDir),
		}
	}

	mounts := []docker.Mount{{Source: cfgDir, Target: filepath.Join(containerHome, "config"), ReadOnly: true}}
	output, err := b.Client.RunDisposable(ctx, b.Cfg.Image, mounts,
		"show-node-id", "--home", containerHome)
	if err != nil {
		return "", &BootstrapError{Step: "show node id", Err: err}
	}
	id := strings.TrimSpace(string(output))
	if id == "" {
		return "", &BootstrapError{Step: "show node id", Err: fmt.Errorf("tool printed no peer id")}
	}
	return id, nil
}

// ShowValidator reads the locally persisted private validator key and
// returns the derived address and public key. After a completed
// validator bootstrap the local copy is gone; this errors then.
func (b *Bootstrapper) ShowValidator() (address, pubKey string, err error) {
	path := filepath.Join(ConfigDir(b.Cfg), validatorKeyFile)
	doc, err := os.ReadFile(path)
	if err != nil {
		return "", "", &BootstrapError{
			Step: "show validator",
			Err:  fmt.Errorf("no validator key at %s: not initialized (or identity already transported)", path),
		}
	}
	if address, err = ValidatorAddress(doc); err != nil {
		return "", "", err
	}
	if pubKey, err = ValidatorPubKey(doc); err != nil {
		return "", "", err
	}
	return address, pubKey, nil
}
