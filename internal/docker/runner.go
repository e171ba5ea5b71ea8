// Package docker builds and executes container-runtime and compose-tool
// invocations. Every external call is a blocking subprocess whose exit
// code is the only result; this package's job is to build the correct
// argv and classify the failure, never to retry.
package docker

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// Runner executes one external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// CLIRunner shells out to the local container tooling.
type CLIRunner struct {
	Log zerolog.Logger
}

// NewCLIRunner returns a Runner that traces every invocation on log.
func NewCLIRunner(log zerolog.Logger) *CLIRunner {
	return &CLIRunner{Log: log}
}

func (r *CLIRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()

	r.Log.Debug().
		Str("bin", name).
		Strs("args", args).
		Dur("took", time.Since(start)).
		Err(err).
		Msg("exec")

	if err != nil {
		// A missing binary or unreachable daemon is an environment
		// problem, not a command failure.
		if errors.Is(err, exec.ErrNotFound) {
			return output, &ToolingError{Tool: name, Err: err}
		}
	}
	return output, err
}
