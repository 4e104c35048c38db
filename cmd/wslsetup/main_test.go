package main

// NOTE: Tests in this package replace the host constructors in env.go.
// Do not use t.Parallel(); each test restores them through stubMachine's cleanup.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/wsl-setup/internal/config"
	"github.com/conn-castle/wsl-setup/internal/provision"
	"github.com/conn-castle/wsl-setup/internal/runner"
	"github.com/conn-castle/wsl-setup/internal/startup"
)

// fakeMachine answers the PowerShell probes and keeps logon entries in memory.
type fakeMachine struct {
	feature   string
	installed bool
	elevated  bool
	entries   map[string]string
	commands  []string
	waited    bool
	confirm   *bool
}

func (m *fakeMachine) Run(_ context.Context, cmd runner.Command) (runner.Result, error) {
	m.commands = append(m.commands, cmd.String())
	res := runner.Result{Command: cmd}
	if cmd.Name == "powershell.exe" {
		script := cmd.Args[len(cmd.Args)-1]
		switch {
		case strings.Contains(script, "Get-WindowsOptionalFeature"):
			res.Output = m.feature + "\r\n"
		case strings.Contains(script, "Get-Command"):
			if m.installed {
				res.Output = "True\r\n"
			} else {
				res.Output = "False\r\n"
			}
		}
	}
	return res, nil
}

func (m *fakeMachine) Register(_ context.Context, entry startup.Entry) error {
	m.entries[entry.Name] = entry.Path
	return nil
}

func (m *fakeMachine) Deregister(_ context.Context, name string) error {
	delete(m.entries, name)
	return nil
}

func (m *fakeMachine) Registered(_ context.Context, name string) (bool, error) {
	_, ok := m.entries[name]
	return ok, nil
}

func (m *fakeMachine) Fetch(context.Context, string, string) (string, error) {
	return `C:\Temp\Ubuntu.appx`, nil
}

func (m *fakeMachine) Confirm(string) (bool, error) {
	return *m.confirm, nil
}

func (m *fakeMachine) ran(prefix string) bool {
	for _, c := range m.commands {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func stubMachine(t *testing.T, feature string, installed bool, interactive bool) *fakeMachine {
	t.Helper()
	m := &fakeMachine{feature: feature, installed: installed, elevated: true, entries: map[string]string{}}

	origConfigPath := defaultConfigPath
	origRunner := newRunner
	origRegistrar := newRegistrar
	origSelf := selfEntry
	origElevated := isElevated
	origInteractive := isInteractive
	origWait := waitForKey
	origConfirmer := newConfirmer
	origDownloader := newDownloader
	t.Cleanup(func() {
		defaultConfigPath = origConfigPath
		newRunner = origRunner
		newRegistrar = origRegistrar
		selfEntry = origSelf
		isElevated = origElevated
		isInteractive = origInteractive
		waitForKey = origWait
		newConfirmer = origConfirmer
		newDownloader = origDownloader
	})

	dir := t.TempDir()
	defaultConfigPath = func() (string, error) { return filepath.Join(dir, config.FileName), nil }
	newRunner = func(io.Writer, *log.Logger) runner.Runner { return m }
	newRegistrar = func(string, runner.Runner) (startup.Registrar, error) { return m, nil }
	selfEntry = func(string) (startup.Entry, error) {
		return startup.Entry{Name: "wslsetup", Path: `C:\Tools\wslsetup.exe`}, nil
	}
	isElevated = func() (bool, error) { return m.elevated, nil }
	isInteractive = func() bool { return interactive }
	waitForKey = func(io.Reader, io.Writer, string) error {
		m.waited = true
		return nil
	}
	newConfirmer = func() provision.Confirmer { return m }
	newDownloader = func(*config.Config, *log.Logger) (provision.Downloader, error) { return m, nil }
	return m
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestMainVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, execute([]string{"wslsetup", "--version"}, &out, &out))
	require.Contains(t, out.String(), Version)
}

func TestRunMainUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	code := 0
	runMain([]string{"wslsetup", "unknown"}, &out, &out, func(c int) { code = c })
	require.Equal(t, 1, code)
	require.Contains(t, out.String(), "unknown command")
}

func TestRunMainError(t *testing.T) {
	orig := executeFunc
	t.Cleanup(func() { executeFunc = orig })
	executeFunc = func([]string, io.Writer, io.Writer) error { return errors.New("boom") }

	var out bytes.Buffer
	code := 0
	runMain([]string{"wslsetup"}, &out, &out, func(c int) { code = c })
	require.Equal(t, 1, code)
	require.Contains(t, out.String(), "boom")
}

func TestRunMainFailedCommandExitsOne(t *testing.T) {
	orig := executeFunc
	t.Cleanup(func() { executeFunc = orig })
	executeFunc = func([]string, io.Writer, io.Writer) error {
		return fmt.Errorf("failed to install Ubuntu-18.04: %w", &runner.ExitError{Command: "ubuntu1804.exe install --root", Code: 50})
	}

	var out bytes.Buffer
	code := 0
	runMain([]string{"wslsetup"}, &out, &out, func(c int) { code = c })
	require.Equal(t, 1, code)
	require.Contains(t, out.String(), "exited with code 50")
}

func TestRunMainSuccess(t *testing.T) {
	called := false
	runMain([]string{"wslsetup", "--version"}, io.Discard, io.Discard, func(int) { called = true })
	require.False(t, called)
}

func TestVersionString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = origVersion, origCommit, origDate })

	Version, Commit, BuildDate = "v1.2.3", "unknown", "unknown"
	require.Equal(t, "v1.2.3", versionString())

	Commit = "abc123"
	require.Equal(t, "v1.2.3 (commit abc123)", versionString())

	BuildDate = "2026-01-02"
	require.Equal(t, "v1.2.3 (commit abc123, built 2026-01-02)", versionString())
}

func TestRoot_FreshMachineSchedulesReboot(t *testing.T) {
	m := stubMachine(t, "Disabled", false, true)

	var out, errOut bytes.Buffer
	require.NoError(t, execute([]string{"wslsetup", "--yes"}, &out, &errOut))

	require.Contains(t, out.String(), "Rebooting in 10 seconds")
	require.Contains(t, m.entries, "wslsetup")
	require.True(t, m.ran("shutdown.exe /r /f /t 10"))
	require.False(t, m.ran("ubuntu1804.exe"))
	require.False(t, m.waited)
}

func TestRoot_ResumeUpgradesAndWaits(t *testing.T) {
	m := stubMachine(t, "Enabled", true, true)
	m.entries["wslsetup"] = `C:\Tools\wslsetup.exe`

	var out bytes.Buffer
	require.NoError(t, execute([]string{"wslsetup"}, &out, io.Discard))

	require.Empty(t, m.entries)
	require.True(t, m.ran("ubuntu1804.exe run apt update"))
	require.Contains(t, out.String(), "Ubuntu-18.04 is installed and up to date")
	require.True(t, m.waited)
}

func TestRoot_NoWait(t *testing.T) {
	m := stubMachine(t, "Enabled", true, true)
	require.NoError(t, execute([]string{"wslsetup", "--no-wait"}, io.Discard, io.Discard))
	require.False(t, m.waited)
}

func TestRoot_NonInteractiveDoesNotWait(t *testing.T) {
	m := stubMachine(t, "Enabled", false, false)
	require.NoError(t, execute([]string{"wslsetup"}, io.Discard, io.Discard))
	require.True(t, m.ran("wsl.exe --set-version Ubuntu-18.04 2"))
	require.False(t, m.waited)
}

func TestRoot_NotElevated(t *testing.T) {
	m := stubMachine(t, "Disabled", false, false)
	m.elevated = false

	var errOut bytes.Buffer
	err := execute([]string{"wslsetup"}, io.Discard, &errOut)
	require.ErrorIs(t, err, provision.ErrNotElevated)
	require.Contains(t, errOut.String(), "Run as administrator")
	require.Empty(t, m.entries)
}

func TestRoot_UnelevatedRelaunchCompletes(t *testing.T) {
	m := stubMachine(t, "Enabled", false, false)
	m.elevated = false
	m.entries["wslsetup"] = `C:\Tools\wslsetup.exe`

	var out bytes.Buffer
	require.NoError(t, execute([]string{"wslsetup"}, &out, io.Discard))
	require.Empty(t, m.entries)
	require.True(t, m.ran("wsl.exe --set-version Ubuntu-18.04 2"))
	require.True(t, m.ran("ubuntu1804.exe run apt update"))
	require.False(t, m.ran("dism.exe"))
	require.Contains(t, out.String(), "Ubuntu-18.04 is installed and up to date")
}

func TestRoot_RebootConfirmation(t *testing.T) {
	path := writeConfig(t, "[reboot]\nconfirm = true\n")

	t.Run("declined", func(t *testing.T) {
		m := stubMachine(t, "Disabled", false, true)
		no := false
		m.confirm = &no

		var out bytes.Buffer
		require.NoError(t, execute([]string{"wslsetup", "--config", path}, &out, io.Discard))
		require.Contains(t, out.String(), "Reboot postponed")
		require.False(t, m.ran("shutdown.exe"))
		require.Contains(t, m.entries, "wslsetup")
	})

	t.Run("yes flag skips prompt", func(t *testing.T) {
		m := stubMachine(t, "Disabled", false, true)
		require.NoError(t, execute([]string{"wslsetup", "--config", path, "--yes"}, io.Discard, io.Discard))
		require.True(t, m.ran("shutdown.exe"))
	})
}

func TestRoot_InvalidConfig(t *testing.T) {
	stubMachine(t, "Enabled", true, false)
	path := writeConfig(t, "[startup]\nmechanism = \"cron\"\n")

	err := execute([]string{"wslsetup", "--config", path}, io.Discard, io.Discard)
	require.ErrorIs(t, err, config.ErrConfigValidation)
}

func TestRoot_MissingExplicitConfig(t *testing.T) {
	stubMachine(t, "Enabled", true, false)
	err := execute([]string{"wslsetup", "--config", filepath.Join(t.TempDir(), "nope.toml")}, io.Discard, io.Discard)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRoot_VerboseLogsCommands(t *testing.T) {
	origRunner := newRunner
	m := stubMachine(t, "Enabled", true, false)
	var errOut bytes.Buffer
	newRunner = func(_ io.Writer, logger *log.Logger) runner.Runner {
		logger.Debug("runner created")
		return m
	}
	t.Cleanup(func() { newRunner = origRunner })

	require.NoError(t, execute([]string{"wslsetup", "--verbose"}, io.Discard, &errOut))
	require.Contains(t, errOut.String(), "runner created")
}

func TestStatusCommand(t *testing.T) {
	m := stubMachine(t, "Disabled", false, false)
	m.elevated = false

	var out bytes.Buffer
	require.NoError(t, execute([]string{"wslsetup", "status"}, &out, io.Discard))
	text := out.String()
	require.Contains(t, text, "Provisioning status for Ubuntu-18.04")
	require.Contains(t, text, "[WARN]")
	require.Contains(t, text, "Microsoft-Windows-Subsystem-Linux is Disabled")
	require.Contains(t, text, "Next stage: feature-disabled")
	require.False(t, m.ran("dism.exe"))
}

func TestStatusCommand_Provisioned(t *testing.T) {
	stubMachine(t, "Enabled", true, false)

	var out bytes.Buffer
	require.NoError(t, execute([]string{"wslsetup", "status"}, &out, io.Discard))
	require.Contains(t, out.String(), "Next stage: distribution-installed")
	require.NotContains(t, out.String(), "[WARN]")
}

func TestUnregisterCommand(t *testing.T) {
	m := stubMachine(t, "Enabled", true, false)

	var out bytes.Buffer
	require.NoError(t, execute([]string{"wslsetup", "unregister"}, &out, io.Discard))
	require.Contains(t, out.String(), `No logon entry "wslsetup"`)

	m.entries["wslsetup"] = "x"
	out.Reset()
	require.NoError(t, execute([]string{"wslsetup", "unregister"}, &out, io.Discard))
	require.Contains(t, out.String(), `Removed logon entry "wslsetup"`)
	require.Empty(t, m.entries)
}

func TestConfigCommand(t *testing.T) {
	stubMachine(t, "Enabled", true, false)

	var out bytes.Buffer
	require.NoError(t, execute([]string{"wslsetup", "config"}, &out, io.Discard))
	require.Contains(t, out.String(), "delay_seconds = 10")
	require.Contains(t, out.String(), "Ubuntu-18.04")

	path := writeConfig(t, "[reboot]\ndelay_seconds = 3\n")
	out.Reset()
	require.NoError(t, execute([]string{"wslsetup", "config", "--config", path}, &out, io.Discard))
	require.Contains(t, out.String(), "delay_seconds = 3")
}
