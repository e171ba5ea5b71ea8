package docker

import (
	"context"
	"errors"
	"fmt"
)

// Client wraps one-shot container operations used by the identity
// bootstrap path.
type Client struct {
	Bin    string
	Runner Runner
}

// NewClient returns a Client bound to the container runtime binary.
func NewClient(bin string, r Runner) *Client {
	return &Client{Bin: bin, Runner: r}
}

func (c *Client) run(ctx context.Context, op string, args ...string) ([]byte, error) {
	output, err := c.Runner.Run(ctx, c.Bin, args...)
	if err != nil {
		if _, ok := err.(*ToolingError); ok {
			return output, err
		}
		return output, fmt.Errorf("%s %s failed: %w\n%s", c.Bin, op, err, output)
	}
	return output, nil
}

// Mount is a single -v bind for RunOneShot.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

func (m Mount) flag() string {
	s := m.Source + ":" + m.Target
	if m.ReadOnly {
		s += ":ro"
	}
	return s
}

// RunOneShot runs a named container to perform one initialization side
// effect. The container is left in place for later extraction; release
// it with RemoveContainer.
func (c *Client) RunOneShot(ctx context.Context, name, image string, mounts []Mount, cmd ...string) ([]byte, error) {
	args := []string{"run", "--name", name}
	for _, m := range mounts {
		args = append(args, "-v", m.flag())
	}
	args = append(args, image)
	args = append(args, cmd...)
	return c.run(ctx, "run", args...)
}

// RunDisposable runs an anonymous container that the runtime removes
// on exit. Used for read-only display operations.
func (c *Client) RunDisposable(ctx context.Context, image string, mounts []Mount, cmd ...string) ([]byte, error) {
	args := []string{"run", "--rm"}
	for _, m := range mounts {
		args = append(args, "-v", m.flag())
	}
	args = append(args, image)
	args = append(args, cmd...)
	return c.run(ctx, "run", args...)
}

// CopyFrom copies a path out of a container to the host.
func (c *Client) CopyFrom(ctx context.Context, container, src, dst string) error {
	_, err := c.run(ctx, "cp", "cp", container+":"+src, dst)
	return err
}

// RemoveContainer force-removes a container. Absence is not an error.
func (c *Client) RemoveContainer(ctx context.Context, name string) error {
	_, err := c.run(ctx, "rm", "rm", "-f", name)
	if err != nil {
		var te *ToolingError
		if errors.As(err, &te) {
			return err
		}
		// rm -f of a missing container is a no-op for our purposes.
		return nil
	}
	return nil
}
