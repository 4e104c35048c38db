package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/conn-castle/wsl-setup/internal/messages"
)

// OSRunner implements Runner with os/exec. Children get no console window of their own.
type OSRunner struct {
	// Stream receives a live copy of non-quiet command output when set.
	Stream io.Writer
	Logger *log.Logger
}

// Run starts cmd, waits for it to exit, and returns its exit code and output.
func (r OSRunner) Run(ctx context.Context, c Command) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := r.logger()
	logger.Debug("running command", "command", c.Name, "args", c.Args)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	hideWindow(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if r.Stream != nil && !c.Quiet {
		cmd.Stdout = io.MultiWriter(&stdout, r.Stream)
		cmd.Stderr = io.MultiWriter(&stderr, r.Stream)
	}

	res := Result{Command: c}
	err := cmd.Run()
	res.Output = stdout.String()
	res.Stderr = stderr.String()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf(messages.RunnerInterruptedFmt, c.String(), ctxErr)
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return res, fmt.Errorf(messages.RunnerStartFmt, c.String(), err)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	logger.Debug("command finished", "command", c.Name, "exit", res.ExitCode)
	return res, nil
}

func (r OSRunner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}
