// Package extcmd runs the external tools transtats delegates to.
//
// Both the package manager and the stats utility are consumed through the
// Runner interface so command execution can be stubbed in tests. The real
// implementation uses os/exec with context cancellation, so an interrupted
// run aborts a hung external tool instead of hanging forever.
package extcmd

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/google/shlex"

	"github.com/deepin-community/transtats/pkg/errors"
)

// Runner executes an external command and captures its output.
type Runner interface {
	// Run executes argv with dir as the working directory (or the process
	// working directory when dir is empty) and returns captured stdout and
	// stderr. A non-zero exit status is reported through err with stdout and
	// stderr still populated.
	Run(ctx context.Context, dir string, argv []string) (stdout, stderr string, err error)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

// NewRunner returns the os/exec-backed Runner.
func NewRunner() Runner {
	return &ExecRunner{}
}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir string, argv []string) (string, string, error) {
	if len(argv) == 0 {
		return "", "", errors.New(errors.ErrCodeInternal, "empty command line")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// SplitCommand parses a configured command-line override such as
// "sudo apt" into argv form, honoring shell-style quoting.
func SplitCommand(s string) ([]string, error) {
	argv, err := shlex.Split(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse command line %q", s)
	}
	if len(argv) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "command line %q is empty", s)
	}
	return argv, nil
}

// FirstLine returns the first non-empty line of s, trimmed.
// Used to extract the banner line from tool --version output.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
