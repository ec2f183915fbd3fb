// Package labels copies the release-note labels of the scaffold's source
// repository into a new plugin repository.
package labels

import (
	"context"
	"io"
	"os/exec"
)

// For mocking in tests
var (
	lookPath       = exec.LookPath
	commandContext = exec.CommandContext
)

const ghBinary = "gh"

// Status is the outcome of probing for the gh label tool.
type Status int

const (
	Unavailable Status = iota
	Available
	ProbeFailed
)

func (s Status) String() string {
	switch s {
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	case ProbeFailed:
		return "probe failed"
	default:
		return "unknown"
	}
}

// Probe checks that gh is on PATH and that it understands "label clone".
// It returns the resolved executable path when available.
func Probe(ctx context.Context) (Status, string) {
	path, err := lookPath(ghBinary)
	if err != nil {
		return Unavailable, ""
	}

	cmd := commandContext(ctx, path, "label", "clone", "-h")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return ProbeFailed, path
	}
	return Available, path
}
