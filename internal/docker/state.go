package docker

import (
	"context"
	"strings"

	"github.com/graphene-chain/graphene-control-plane/internal/config"
)

// GroupState is the observed state of a service group. It is derived
// from the container runtime on every call, never cached.
type GroupState int

const (
	StateAbsent GroupState = iota
	StateRunning
	StateStopped
)

func (s GroupState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "absent"
	}
}

// State observes a group's deployment state via the compose tool's ps
// listing. Any container reported as Up makes the group running; any
// container at all makes it at least stopped.
func State(ctx context.Context, c *Compose, g config.ServiceGroup) (GroupState, error) {
	output, err := c.PS(ctx, g)
	if err != nil {
		return StateAbsent, err
	}

	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	seen := false
	for _, line := range lines {
		if line == "" || strings.HasPrefix(line, "NAME") || strings.HasPrefix(line, "----") {
			continue
		}
		seen = true
		if strings.Contains(line, "Up") || strings.Contains(line, "running") {
			return StateRunning, nil
		}
	}
	if seen {
		return StateStopped, nil
	}
	return StateAbsent, nil
}
