// Package lifecycle drives service groups through deploy, stop,
// restart, clean, and validate transitions with partial-failure
// isolation.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/graphene-chain/graphene-control-plane/internal/config"
	"github.com/graphene-chain/graphene-control-plane/internal/docker"
)

// GroupResult is the outcome of one action on one service group.
type GroupResult struct {
	Group string
	Err   error
}

// Summary aggregates per-group results for one action. Tolerant
// actions (stop, clean) succeed overall regardless of individual
// group failures; intolerant ones (deploy, restart, validate) fail if
// any group failed.
type Summary struct {
	Action   string
	Tolerant bool
	Results  []GroupResult
}

// Failed reports the aggregate exit status for the action.
func (s *Summary) Failed() bool {
	if s.Tolerant {
		return false
	}
	for _, r := range s.Results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// FailedGroups lists the groups whose action returned an error,
// including ones a tolerant action absorbed.
func (s *Summary) FailedGroups() []GroupResult {
	var failed []GroupResult
	for _, r := range s.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Controller processes service groups strictly sequentially, in
// declared order. Groups are independent: one group's failure never
// stops the walk, only the aggregate status.
type Controller struct {
	Cfg     *config.Config
	Compose *docker.Compose
	Runner  docker.Runner
}

// ensureNetwork provisions the environment's shared network before any
// group mutation. A tooling failure here is fatal to the whole action.
func (c *Controller) ensureNetwork(ctx context.Context) error {
	if c.Cfg.SkipNetwork {
		return nil
	}
	_, err := docker.EnsureNetwork(ctx, c.Runner, c.Cfg.DockerBin, c.Cfg.NetworkName())
	return err
}

// walk applies fn to every group in order, isolating failures per
// group. A ToolingError still aborts: the runtime itself is gone.
func (c *Controller) walk(ctx context.Context, fs *config.FileSet, action string, tolerant bool, fn func(config.ServiceGroup) error) (*Summary, error) {
	s := &Summary{Action: action, Tolerant: tolerant}
	for _, g := range fs.Groups {
		err := fn(g)

		var te *docker.ToolingError
		if errors.As(err, &te) {
			return nil, err
		}

		s.Results = append(s.Results, GroupResult{Group: g.Name, Err: err})
	}
	return s, nil
}

// Deploy stops then starts every group. A group's start failure is
// reported but does not keep sibling groups from being attempted; the
// aggregate still fails.
func (c *Controller) Deploy(ctx context.Context, fs *config.FileSet) (*Summary, error) {
	if err := c.ensureNetwork(ctx); err != nil {
		return nil, err
	}
	return c.walk(ctx, fs, "deploy", false, func(g config.ServiceGroup) error {
		// Stopping an absent group is a no-op; a stop failure here is
		// absorbed because up decides the group's fate.
		if err := c.Compose.Stop(ctx, g); err != nil {
			var te *docker.ToolingError
			if errors.As(err, &te) {
				return err
			}
		}
		return c.Compose.Up(ctx, g, c.Cfg.Build)
	})
}

// Stop stops every group's containers, tolerating individual failures.
// Networks are left intact.
func (c *Controller) Stop(ctx context.Context, fs *config.FileSet) (*Summary, error) {
	return c.walk(ctx, fs, "stop", true, func(g config.ServiceGroup) error {
		return c.Compose.Stop(ctx, g)
	})
}

// Clean stops every group and removes its containers and named
// volumes. Destructive and irreversible; tolerant teardown.
func (c *Controller) Clean(ctx context.Context, fs *config.FileSet) (*Summary, error) {
	return c.walk(ctx, fs, "clean", true, func(g config.ServiceGroup) error {
		if err := c.Compose.Stop(ctx, g); err != nil {
			return err
		}
		return c.Compose.Down(ctx, g, true)
	})
}

// Restart is stop followed by deploy, as two explicit operations.
func (c *Controller) Restart(ctx context.Context, fs *config.FileSet) (*Summary, error) {
	if _, err := c.Stop(ctx, fs); err != nil {
		return nil, err
	}
	s, err := c.Deploy(ctx, fs)
	if err != nil {
		return nil, err
	}
	s.Action = "restart"
	return s, nil
}

// Validate resolves every group's compose definition and layered env
// files into a final configuration without starting anything.
func (c *Controller) Validate(ctx context.Context, fs *config.FileSet) (*Summary, error) {
	return c.walk(ctx, fs, "validate", false, func(g config.ServiceGroup) error {
		if _, err := c.Compose.Config(ctx, g); err != nil {
			return err
		}
		if _, err := config.MergedEnv(g); err != nil {
			return err
		}
		return nil
	})
}

// States observes the current deployment state of every group.
func (c *Controller) States(ctx context.Context, fs *config.FileSet) (map[string]docker.GroupState, error) {
	states := make(map[string]docker.GroupState, len(fs.Groups))
	for _, g := range fs.Groups {
		st, err := docker.State(ctx, c.Compose, g)
		if err != nil {
			return nil, fmt.Errorf("observing %s: %w", g.Name, err)
		}
		states[g.Name] = st
	}
	return states, nil
}

// TailLogs returns a bounded log tail for one group.
func (c *Controller) TailLogs(ctx context.Context, g config.ServiceGroup) ([]byte, error) {
	return c.Compose.Logs(ctx, g, c.Cfg.LogTail)
}
