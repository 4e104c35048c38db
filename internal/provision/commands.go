package provision

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/conn-castle/wsl-setup/internal/runner"
)

// dismRestartRequired is DISM's "succeeded, restart required" exit code (ERROR_SUCCESS_REBOOT_REQUIRED).
const dismRestartRequired = 3010

// upgradeEnv forces apt and ucf to keep local configuration files without prompting.
var upgradeEnv = []string{"UCF_FORCE_CONFOLD=1", "DEBIAN_FRONTEND=noninteractive"}

func enableFeatureCommand(feature string) runner.Command {
	return runner.Command{
		Name:        "dism.exe",
		Args:        []string{"/online", "/enable-feature", "/featurename:" + feature, "/all", "/norestart"},
		OKExitCodes: []int{dismRestartRequired},
	}
}

func rebootCommand(delay time.Duration) runner.Command {
	seconds := int(delay / time.Second)
	return runner.Command{
		Name: "shutdown.exe",
		Args: []string{"/r", "/f", "/t", strconv.Itoa(seconds)},
	}
}

func addAppxCommand(path string) runner.Command {
	quoted := "'" + strings.ReplaceAll(path, "'", "''") + "'"
	return runner.Command{
		Name: "powershell.exe",
		Args: []string{"-NoProfile", "-NonInteractive", "-Command", "Add-AppxPackage -Path " + quoted},
	}
}

func launcherCommand(launcher string, args ...string) runner.Command {
	return runner.Command{Name: launcher + ".exe", Args: args}
}

func wslCommand(args ...string) runner.Command {
	return runner.Command{Name: "wsl.exe", Args: args}
}

// distributionShell runs a shell command inside the distribution through its launcher's passthrough.
func distributionShell(launcher string, words ...string) runner.Command {
	return launcherCommand(launcher, append([]string{"run"}, words...)...)
}

func aptUpdateCommand(launcher string) runner.Command {
	return distributionShell(launcher, "apt", "update")
}

func aptUpgradeCommand(launcher string) runner.Command {
	words := append([]string{}, upgradeEnv...)
	words = append(words,
		"apt",
		"-o", "Dpkg::Options::=--force-confdef",
		"-o", "Dpkg::Options::=--force-confold",
		"upgrade", "-y",
	)
	return distributionShell(launcher, words...)
}

// Hook runs extra commands before the package refresh.
type Hook func(ctx context.Context, r runner.Runner, launcher string) error

// CleanPackageState clears apt lists and stale dpkg/apt locks left by an interrupted first boot,
// which otherwise make the refresh fail.
func CleanPackageState(ctx context.Context, r runner.Runner, launcher string) error {
	steps := [][]string{
		{"rm", "-rf", "/var/lib/apt/lists/*"},
		{"rm", "-f", "/var/lib/dpkg/lock", "/var/lib/dpkg/lock-frontend", "/var/cache/apt/archives/lock"},
	}
	for _, words := range steps {
		if err := runner.Exec(ctx, r, distributionShell(launcher, words...)); err != nil {
			return err
		}
	}
	return nil
}
