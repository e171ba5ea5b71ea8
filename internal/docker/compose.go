package docker

import (
	"context"
	"strconv"
	"strings"

	"github.com/graphene-chain/graphene-control-plane/internal/config"
)

// Compose runs compose-tool actions against one service group at a
// time. Side effects are fully delegated to the tool; this type builds
// the invocation (file set, project name, flags) and interprets the
// exit status.
type Compose struct {
	Bin    string
	Runner Runner
}

// NewCompose returns a Compose bound to the given tool binary.
func NewCompose(bin string, r Runner) *Compose {
	return &Compose{Bin: bin, Runner: r}
}

// base builds the shared prefix: compose file, layered env files in
// order (later files win), and the project name.
func (c *Compose) base(g config.ServiceGroup) []string {
	args := []string{"-f", g.ComposeFile}
	for _, f := range g.EnvFiles {
		args = append(args, "--env-file", f)
	}
	return append(args, "-p", g.Project)
}

func (c *Compose) run(ctx context.Context, g config.ServiceGroup, action string, args ...string) ([]byte, error) {
	argv := append(c.base(g), args...)
	output, err := c.Runner.Run(ctx, c.Bin, argv...)
	if err != nil {
		if _, ok := err.(*ToolingError); ok {
			return output, err
		}
		return output, &DeploymentError{
			Group:   g.Name,
			Action:  action,
			Command: c.Bin + " " + strings.Join(argv, " "),
			Output:  string(output),
			Err:     err,
		}
	}
	return output, nil
}

// Up starts the group detached, building images unless suppressed.
func (c *Compose) Up(ctx context.Context, g config.ServiceGroup, build bool) error {
	args := []string{"up", "-d"}
	if build {
		args = append(args, "--build")
	}
	_, err := c.run(ctx, g, "up", args...)
	return err
}

// Stop stops the group's containers. Networks are left intact.
// Stopping an absent group is not an error.
func (c *Compose) Stop(ctx context.Context, g config.ServiceGroup) error {
	_, err := c.run(ctx, g, "stop", "stop")
	return err
}

// Down removes the group's containers, and with volumes set, its named
// volumes as well. The volume path is destructive and irreversible.
func (c *Compose) Down(ctx context.Context, g config.ServiceGroup, volumes bool) error {
	args := []string{"down", "--remove-orphans"}
	if volumes {
		args = append(args, "-v")
	}
	_, err := c.run(ctx, g, "down", args...)
	return err
}

// Config resolves the compose definition and layered env files into a
// final configuration without starting anything.
func (c *Compose) Config(ctx context.Context, g config.ServiceGroup) ([]byte, error) {
	return c.run(ctx, g, "config", "config")
}

// PS lists the group's containers.
func (c *Compose) PS(ctx context.Context, g config.ServiceGroup) ([]byte, error) {
	return c.run(ctx, g, "ps", "ps")
}

// Logs streams a bounded tail of the group's logs.
func (c *Compose) Logs(ctx context.Context, g config.ServiceGroup, tail int) ([]byte, error) {
	return c.run(ctx, g, "logs", "logs", "--tail="+strconv.Itoa(tail))
}
