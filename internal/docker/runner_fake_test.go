package docker

import (
	"context"
	"strings"
)

// fakeRunner records every invocation and answers from a script.
type fakeRunner struct {
	calls   [][]string
	respond func(name string, args []string) ([]byte, error)
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.respond != nil {
		return f.respond(name, args)
	}
	return nil, nil
}

func (f *fakeRunner) joined() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = strings.Join(c, " ")
	}
	return out
}
