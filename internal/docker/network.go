package docker

import (
	"context"
	"errors"
)

// EnsureNetwork creates the named Docker network if it does not exist.
// Idempotent: a second call for the same name observes the network via
// inspect and issues no create. Returns whether a create happened.
func EnsureNetwork(ctx context.Context, r Runner, bin, name string) (bool, error) {
	_, err := r.Run(ctx, bin, "network", "inspect", name)
	if err == nil {
		return false, nil
	}

	var te *ToolingError
	if errors.As(err, &te) {
		return false, err
	}

	output, err := r.Run(ctx, bin, "network", "create", name)
	if err != nil {
		var te *ToolingError
		if errors.As(err, &te) {
			return false, err
		}
		return false, &ToolingError{Tool: bin, Err: errors.New("network create failed: " + string(output))}
	}
	return true, nil
}
