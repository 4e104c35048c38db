// Package startup registers the running executable to be relaunched at the next interactive logon.
package startup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conn-castle/wsl-setup/internal/messages"
	"github.com/conn-castle/wsl-setup/internal/runner"
)

// Mechanisms accepted by New.
const (
	MechanismTask     = "task"
	MechanismRegistry = "registry"
)

// ErrUnsupported is returned when the persistence store is unavailable on this platform.
var ErrUnsupported = errors.New(messages.StartupUnsupported)

// Entry names the program to relaunch and the absolute path to run.
type Entry struct {
	Name string
	Path string
}

// Registrar persists at most one named logon entry per program.
// Register overwrites an existing entry; Deregister is a no-op when none exists.
type Registrar interface {
	Register(ctx context.Context, entry Entry) error
	Deregister(ctx context.Context, name string) error
	Registered(ctx context.Context, name string) (bool, error)
}

// Error reports a failed persistence store operation.
type Error struct {
	Op   string
	Name string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf(messages.StartupOpFailedFmt, e.Op, e.Name, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KnownMechanism reports whether New accepts mechanism by name.
func KnownMechanism(mechanism string) bool {
	switch normalizeMechanism(mechanism) {
	case MechanismTask, MechanismRegistry:
		return true
	default:
		return false
	}
}

func normalizeMechanism(mechanism string) string {
	return strings.ToLower(strings.TrimSpace(mechanism))
}

// New returns the Registrar for mechanism. Empty selects MechanismTask.
func New(mechanism string, r runner.Runner) (Registrar, error) {
	switch normalizeMechanism(mechanism) {
	case "", MechanismTask:
		return TaskRegistrar{Runner: r}, nil
	case MechanismRegistry:
		return NewRegistryRegistrar(), nil
	default:
		return nil, fmt.Errorf(messages.StartupUnknownMechanismFmt, mechanism)
	}
}

var executablePath = os.Executable

// SelfEntry describes the running executable. An empty name defaults to DefaultName.
func SelfEntry(name string) (Entry, error) {
	exe, err := executablePath()
	if err != nil {
		return Entry{}, fmt.Errorf(messages.StartupResolveExecutableFmt, err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	abs, err := filepath.Abs(exe)
	if err != nil {
		return Entry{}, fmt.Errorf(messages.StartupResolveExecutableFmt, err)
	}
	if strings.TrimSpace(name) == "" {
		name = DefaultName(abs)
	}
	return Entry{Name: name, Path: abs}, nil
}

// DefaultName is the executable's base name without its extension.
func DefaultName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
