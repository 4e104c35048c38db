package startup

import (
	"context"

	"github.com/conn-castle/wsl-setup/internal/runner"
)

const schtasks = "schtasks.exe"

// TaskRegistrar keeps the entry as a Task Scheduler logon task running with highest privileges.
type TaskRegistrar struct {
	Runner runner.Runner
}

// Register creates or replaces the logon task.
func (t TaskRegistrar) Register(ctx context.Context, entry Entry) error {
	cmd := runner.Command{
		Name:  schtasks,
		Args:  []string{"/Create", "/F", "/TN", entry.Name, "/TR", `"` + entry.Path + `"`, "/SC", "ONLOGON", "/RL", "HIGHEST"},
		Quiet: true,
	}
	if err := runner.Exec(ctx, t.Runner, cmd); err != nil {
		return &Error{Op: "register", Name: entry.Name, Err: err}
	}
	return nil
}

// Deregister deletes the logon task when it exists.
func (t TaskRegistrar) Deregister(ctx context.Context, name string) error {
	present, err := t.Registered(ctx, name)
	if err != nil {
		return err
	}
	if !present {
		return nil
	}
	cmd := runner.Command{Name: schtasks, Args: []string{"/Delete", "/F", "/TN", name}, Quiet: true}
	if err := runner.Exec(ctx, t.Runner, cmd); err != nil {
		return &Error{Op: "deregister", Name: name, Err: err}
	}
	return nil
}

// Registered reports whether a task with name exists. schtasks exits non-zero when it does not.
func (t TaskRegistrar) Registered(ctx context.Context, name string) (bool, error) {
	cmd := runner.Command{Name: schtasks, Args: []string{"/Query", "/TN", name}, Quiet: true}
	res, err := t.Runner.Run(ctx, cmd)
	if err != nil {
		return false, &Error{Op: "query", Name: name, Err: err}
	}
	return res.ExitCode == 0, nil
}
