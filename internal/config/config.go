// Package config loads the provisioning settings from an optional TOML file.
package config

import (
	"time"

	"github.com/conn-castle/wsl-setup/internal/startup"
)

// Config is the root of wslsetup.toml.
type Config struct {
	Distribution DistributionConfig `toml:"distribution"`
	Features     FeaturesConfig     `toml:"features"`
	Reboot       RebootConfig       `toml:"reboot"`
	Startup      StartupConfig      `toml:"startup"`
	Upgrade      UpgradeConfig      `toml:"upgrade"`
	Download     DownloadConfig     `toml:"download"`
}

// DistributionConfig identifies the distribution to install.
type DistributionConfig struct {
	// Name is the WSL distribution name, e.g. Ubuntu-18.04.
	Name string `toml:"name"`
	// Launcher is the distribution's command-line entry point without extension.
	Launcher      string `toml:"launcher"`
	PackageURL    string `toml:"package_url"`
	PackageSHA256 string `toml:"package_sha256"`
	WSLVersion    int    `toml:"wsl_version"`
}

// FeaturesConfig lists the optional features involved in enabling WSL.
type FeaturesConfig struct {
	// Probe is the feature whose state decides whether enabling is still required.
	Probe  string   `toml:"probe"`
	Enable []string `toml:"enable"`
}

// RebootConfig controls the reboot barrier.
type RebootConfig struct {
	DelaySeconds int  `toml:"delay_seconds"`
	Confirm      bool `toml:"confirm"`
}

// StartupConfig selects how the program relaunches itself after the reboot.
type StartupConfig struct {
	Mechanism string `toml:"mechanism"`
	Name      string `toml:"name"`
}

// UpgradeConfig tunes the package upgrade stage.
type UpgradeConfig struct {
	CleanPackageState bool `toml:"clean_package_state"`
}

// DownloadConfig tunes the package download.
type DownloadConfig struct {
	Dir       string `toml:"dir"`
	MaxBytes  int64  `toml:"max_bytes"`
	UserAgent string `toml:"user_agent"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Distribution: DistributionConfig{
			Name:       "Ubuntu-18.04",
			Launcher:   "ubuntu1804",
			PackageURL: "https://aka.ms/wsl-ubuntu-1804",
			WSLVersion: 2,
		},
		Features: FeaturesConfig{
			Probe:  "Microsoft-Windows-Subsystem-Linux",
			Enable: []string{"Microsoft-Windows-Subsystem-Linux", "VirtualMachinePlatform"},
		},
		Reboot: RebootConfig{
			DelaySeconds: 10,
		},
		Startup: StartupConfig{
			Mechanism: startup.MechanismTask,
		},
		Upgrade: UpgradeConfig{
			CleanPackageState: true,
		},
	}
}

// RebootDelay returns the configured delay as a duration.
func (c *Config) RebootDelay() time.Duration {
	return time.Duration(c.Reboot.DelaySeconds) * time.Second
}
