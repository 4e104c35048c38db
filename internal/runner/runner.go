// Package runner executes external programs and reports their exit status and output.
package runner

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/conn-castle/wsl-setup/internal/messages"
)

// Command describes one external program invocation.
type Command struct {
	Name string
	Args []string
	// Env holds KEY=VALUE entries appended to the inherited environment.
	Env []string
	// OKExitCodes lists exit codes other than 0 that count as success.
	OKExitCodes []int
	// Quiet keeps output off the runner's console stream; it is still captured.
	Quiet bool
}

// String renders the command line for messages and logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is the exit code and captured output of one invocation.
type Result struct {
	Command  Command
	ExitCode int
	Output   string
	Stderr   string
}

// Succeeded reports whether the exit code is 0 or listed in Command.OKExitCodes.
func (r Result) Succeeded() bool {
	return r.ExitCode == 0 || slices.Contains(r.Command.OKExitCodes, r.ExitCode)
}

// Err returns an *ExitError when the command did not succeed, or nil.
func (r Result) Err() error {
	if r.Succeeded() {
		return nil
	}
	detail := strings.TrimSpace(r.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(r.Output)
	}
	return &ExitError{Command: r.Command.String(), Code: r.ExitCode, Output: detail}
}

// ExitError reports an external command that exited with a disallowed code.
type ExitError struct {
	Command string
	Code    int
	Output  string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf(messages.RunnerExitFmt, e.Command, e.Code)
	if e.Output == "" {
		return msg
	}
	return msg + ": " + lastLine(e.Output)
}

// ExitCode returns the external command's exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// Runner spawns external programs and blocks until they exit.
// A returned error means the program could not be started or was interrupted;
// a non-zero exit is reported only through Result.ExitCode.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Exec runs cmd and returns an error when it fails to start or exits unsuccessfully.
func Exec(ctx context.Context, r Runner, cmd Command) error {
	res, err := r.Run(ctx, cmd)
	if err != nil {
		return err
	}
	return res.Err()
}

// Capture runs cmd and returns its trimmed standard output.
// ok is false when the output is empty or whitespace-only, whatever the cause.
func Capture(ctx context.Context, r Runner, cmd Command) (string, bool, error) {
	cmd.Quiet = true
	res, err := r.Run(ctx, cmd)
	if err != nil {
		return "", false, err
	}
	out := strings.TrimSpace(res.Output)
	if out == "" {
		return "", false, nil
	}
	return out, true, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
