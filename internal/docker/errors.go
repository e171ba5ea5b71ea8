package docker

import "fmt"

// ToolingError means the container runtime or compose tool itself is
// unavailable. It is fatal to the whole lifecycle action.
type ToolingError struct {
	Tool string
	Err  error
}

func (e *ToolingError) Error() string {
	return fmt.Sprintf("tooling error: %s unavailable: %v", e.Tool, e.Err)
}

func (e *ToolingError) Unwrap() error { return e.Err }

// DeploymentError means a service group's subprocess returned non-zero.
// It carries enough context to reproduce the invocation manually.
type DeploymentError struct {
	Group   string
	Action  string
	Command string
	Output  string
	Err     error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("deployment error: %s %s failed (%s): %v\n%s",
		e.Group, e.Action, e.Command, e.Err, e.Output)
}

func (e *DeploymentError) Unwrap() error { return e.Err }
