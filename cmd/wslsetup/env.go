package main

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/conn-castle/wsl-setup/internal/config"
	"github.com/conn-castle/wsl-setup/internal/download"
	"github.com/conn-castle/wsl-setup/internal/elevation"
	"github.com/conn-castle/wsl-setup/internal/probe"
	"github.com/conn-castle/wsl-setup/internal/provision"
	"github.com/conn-castle/wsl-setup/internal/runner"
	"github.com/conn-castle/wsl-setup/internal/startup"
	"github.com/conn-castle/wsl-setup/internal/terminal"
)

// Host-facing constructors, replaced in tests.
var (
	defaultConfigPath = config.DefaultPath
	newRunner         = func(stream io.Writer, logger *log.Logger) runner.Runner {
		return runner.OSRunner{Stream: stream, Logger: logger}
	}
	newRegistrar  = startup.New
	selfEntry     = startup.SelfEntry
	isElevated    = elevation.IsElevated
	isInteractive = terminal.IsInteractive
	waitForKey    = terminal.WaitForKey
	newConfirmer  = func() provision.Confirmer { return terminal.NewHuhConfirmer() }
	newDownloader = func(cfg *config.Config, logger *log.Logger) (provision.Downloader, error) {
		dir, err := cfg.DownloadDir()
		if err != nil {
			return nil, err
		}
		return download.Fetcher{
			UserAgent: cfg.Download.UserAgent,
			MaxBytes:  cfg.Download.MaxBytes,
			Dir:       dir,
			Logger:    logger,
		}, nil
	}
)

type globalFlags struct {
	configPath string
	verbose    bool
	noWait     bool
	yes        bool
}

// environment is what every command builds from the flags and the config file.
type environment struct {
	cfg       *config.Config
	logger    *log.Logger
	runner    runner.Runner
	probes    probe.Prober
	registrar startup.Registrar
	self      startup.Entry
}

func loadConfig(flags *globalFlags) (*config.Config, error) {
	if flags.configPath != "" {
		return config.Load(flags.configPath)
	}
	path, err := defaultConfigPath()
	if err != nil {
		return nil, err
	}
	return config.LoadOptional(path)
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "wslsetup",
	})
}

func newEnvironment(cmd *cobra.Command, flags *globalFlags) (*environment, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), flags.verbose)
	logger.Debug("loaded config", "distribution", cfg.Distribution.Name, "mechanism", cfg.Startup.Mechanism)

	r := newRunner(cmd.OutOrStdout(), logger)
	registrar, err := newRegistrar(cfg.Startup.Mechanism, r)
	if err != nil {
		return nil, err
	}
	self, err := selfEntry(cfg.Startup.Name)
	if err != nil {
		return nil, err
	}
	return &environment{
		cfg:       cfg,
		logger:    logger,
		runner:    r,
		probes:    probe.Prober{Runner: r, Feature: cfg.Features.Probe, Launcher: cfg.Distribution.Launcher},
		registrar: registrar,
		self:      self,
	}, nil
}
