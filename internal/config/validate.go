package config

import (
	"fmt"
	"strings"

	"github.com/conn-castle/wsl-setup/internal/messages"
	"github.com/conn-castle/wsl-setup/internal/startup"
)

// Validate ensures the config is complete and consistent.
func (c *Config) Validate(path string) error {
	if strings.TrimSpace(c.Distribution.Name) == "" {
		return fmt.Errorf(messages.ConfigFieldRequiredFmt, path, "distribution.name")
	}
	if strings.TrimSpace(c.Distribution.Launcher) == "" {
		return fmt.Errorf(messages.ConfigFieldRequiredFmt, path, "distribution.launcher")
	}
	if strings.ContainsAny(c.Distribution.Launcher, `\/ `) {
		return fmt.Errorf(messages.ConfigLauncherInvalidFmt, path, c.Distribution.Launcher)
	}
	if strings.TrimSpace(c.Distribution.PackageURL) == "" {
		return fmt.Errorf(messages.ConfigFieldRequiredFmt, path, "distribution.package_url")
	}
	if c.Distribution.WSLVersion < 1 || c.Distribution.WSLVersion > 2 {
		return fmt.Errorf(messages.ConfigWSLVersionInvalidFmt, path, c.Distribution.WSLVersion)
	}
	if sum := c.Distribution.PackageSHA256; sum != "" && !isHexDigest(sum) {
		return fmt.Errorf(messages.ConfigSHA256InvalidFmt, path)
	}

	if strings.TrimSpace(c.Features.Probe) == "" {
		return fmt.Errorf(messages.ConfigFieldRequiredFmt, path, "features.probe")
	}
	if len(c.Features.Enable) == 0 {
		return fmt.Errorf(messages.ConfigFieldRequiredFmt, path, "features.enable")
	}
	for _, name := range c.Features.Enable {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf(messages.ConfigFeatureEmptyFmt, path)
		}
	}

	if c.Reboot.DelaySeconds < 0 {
		return fmt.Errorf(messages.ConfigRebootDelayInvalidFmt, path, c.Reboot.DelaySeconds)
	}
	if !startup.KnownMechanism(c.Startup.Mechanism) {
		return fmt.Errorf(messages.ConfigMechanismInvalidFmt, path, c.Startup.Mechanism)
	}
	if c.Download.MaxBytes < 0 {
		return fmt.Errorf(messages.ConfigMaxBytesInvalidFmt, path)
	}
	return nil
}

func isHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, r := range strings.ToLower(s) {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
