// Package provision drives the resumable WSL provisioning sequence.
//
// Each Run re-derives its position from fresh probes. Enabling the feature ends
// the run: the program registers itself to start at the next logon, schedules a
// reboot, and returns. The relaunched run removes the registration before doing
// anything else and carries on with install and upgrade.
package provision

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/conn-castle/wsl-setup/internal/config"
	"github.com/conn-castle/wsl-setup/internal/messages"
	"github.com/conn-castle/wsl-setup/internal/probe"
	"github.com/conn-castle/wsl-setup/internal/runner"
	"github.com/conn-castle/wsl-setup/internal/startup"
)

var (
	// ErrNotElevated is returned when features must be enabled without administrative rights.
	ErrNotElevated = errors.New(messages.ProvisionNotElevated)
)

// Outcome is how a Run ended.
type Outcome int

const (
	// OutcomeFailed accompanies every non-nil error from Run.
	OutcomeFailed Outcome = iota
	// OutcomeRebootScheduled means the features were enabled and a reboot was issued.
	OutcomeRebootScheduled
	// OutcomeRebootDeclined means the features were enabled but the user postponed the reboot.
	OutcomeRebootDeclined
	// OutcomeUpgraded means the distribution is installed and upgraded.
	OutcomeUpgraded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFailed:
		return "failed"
	case OutcomeRebootScheduled:
		return "reboot-scheduled"
	case OutcomeRebootDeclined:
		return "reboot-declined"
	case OutcomeUpgraded:
		return "upgraded"
	default:
		return "unknown"
	}
}

// Downloader fetches the distribution package.
type Downloader interface {
	Fetch(ctx context.Context, url string, wantSHA256 string) (string, error)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(title string) (bool, error)
}

// Plan is the fixed provisioning sequence for one distribution.
type Plan struct {
	// Feature gates the reboot barrier.
	Feature      string
	Features     []string
	Distribution string
	Launcher     string
	PackageURL   string
	PackageSHA   string
	WSLVersion   int
	RebootDelay  time.Duration
	// ConfirmReboot asks before rebooting when a Confirmer is available.
	ConfirmReboot bool
	// PreUpgrade runs before the package refresh when set.
	PreUpgrade Hook
}

// PlanFromConfig builds the Plan described by cfg.
func PlanFromConfig(cfg *config.Config) Plan {
	plan := Plan{
		Feature:       cfg.Features.Probe,
		Features:      append([]string(nil), cfg.Features.Enable...),
		Distribution:  cfg.Distribution.Name,
		Launcher:      cfg.Distribution.Launcher,
		PackageURL:    cfg.Distribution.PackageURL,
		PackageSHA:    cfg.Distribution.PackageSHA256,
		WSLVersion:    cfg.Distribution.WSLVersion,
		RebootDelay:   cfg.RebootDelay(),
		ConfirmReboot: cfg.Reboot.Confirm,
	}
	if cfg.Upgrade.CleanPackageState {
		plan.PreUpgrade = CleanPackageState
	}
	return plan
}

// Deps are the orchestrator's collaborators.
type Deps struct {
	Runner     runner.Runner
	Probes     Probes
	Registrar  startup.Registrar
	Downloader Downloader
	// Self is the entry registered for the next logon.
	Self startup.Entry
	// Confirmer is optional; without it the reboot is never confirmed.
	Confirmer Confirmer
	// IsElevated is optional; without it elevation is not checked.
	IsElevated func() (bool, error)
	// Step receives a short description before each stage.
	Step   func(step string)
	Logger *log.Logger
}

// Orchestrator runs a Plan against the host.
type Orchestrator struct {
	plan Plan
	deps Deps
}

// New validates deps and returns an Orchestrator.
func New(plan Plan, deps Deps) (*Orchestrator, error) {
	switch {
	case deps.Runner == nil:
		return nil, fmt.Errorf(messages.ProvisionDepRequiredFmt, "runner")
	case deps.Probes == nil:
		return nil, fmt.Errorf(messages.ProvisionDepRequiredFmt, "probes")
	case deps.Registrar == nil:
		return nil, fmt.Errorf(messages.ProvisionDepRequiredFmt, "registrar")
	case deps.Downloader == nil:
		return nil, fmt.Errorf(messages.ProvisionDepRequiredFmt, "downloader")
	case deps.Self.Name == "" || deps.Self.Path == "":
		return nil, fmt.Errorf(messages.ProvisionDepRequiredFmt, "self entry")
	}
	if deps.Step == nil {
		deps.Step = func(string) {}
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	return &Orchestrator{plan: plan, deps: deps}, nil
}

// Detect reports the current stage without changing anything.
func (o *Orchestrator) Detect(ctx context.Context) (Stage, error) {
	return Detect(ctx, o.deps.Probes, o.deps.Registrar, o.deps.Self.Name)
}

// Run performs the stages that remain on this host.
// After a reboot is issued it returns immediately; nothing else runs in this process.
func (o *Orchestrator) Run(ctx context.Context) (Outcome, error) {
	feature, err := o.deps.Probes.FeatureState(ctx)
	if err != nil {
		o.deps.Logger.Warn("feature probe failed; treating as not enabled", "feature", o.plan.Feature, "err", err)
	}
	o.deps.Logger.Debug("probed feature", "feature", o.plan.Feature, "state", feature)
	if !feature.Enabled() {
		return o.enableAndReboot(ctx, feature)
	}

	o.deps.Step(messages.ProvisionStepDeregister)
	if err := o.deps.Registrar.Deregister(ctx, o.deps.Self.Name); err != nil {
		return OutcomeFailed, err
	}

	o.deps.Step(messages.ProvisionStepInstall)
	if err := o.installDistribution(ctx); err != nil {
		return OutcomeFailed, err
	}

	o.deps.Step(messages.ProvisionStepUpgrade)
	if err := o.upgradeDistribution(ctx); err != nil {
		return OutcomeFailed, err
	}
	return OutcomeUpgraded, nil
}

func (o *Orchestrator) enableAndReboot(ctx context.Context, state probe.FeatureState) (Outcome, error) {
	if o.deps.IsElevated != nil {
		elevated, err := o.deps.IsElevated()
		if err != nil {
			return OutcomeFailed, fmt.Errorf(messages.ProvisionCheckElevationFmt, err)
		}
		if !elevated && state == probe.FeatureUnknown {
			return OutcomeFailed, fmt.Errorf(messages.ProvisionFeatureUnknownFmt, o.plan.Feature, ErrNotElevated)
		}
		if !elevated {
			return OutcomeFailed, ErrNotElevated
		}
	}

	o.deps.Step(messages.ProvisionStepEnable)
	for _, feature := range o.plan.Features {
		if err := runner.Exec(ctx, o.deps.Runner, enableFeatureCommand(feature)); err != nil {
			return OutcomeFailed, fmt.Errorf(messages.ProvisionEnableFeatureFmt, feature, err)
		}
	}

	o.deps.Step(messages.ProvisionStepRegister)
	if err := o.deps.Registrar.Register(ctx, o.deps.Self); err != nil {
		return OutcomeFailed, err
	}

	if o.plan.ConfirmReboot && o.deps.Confirmer != nil {
		ok, err := o.deps.Confirmer.Confirm(messages.ProvisionConfirmReboot)
		if err != nil {
			return OutcomeFailed, err
		}
		if !ok {
			return OutcomeRebootDeclined, nil
		}
	}

	o.deps.Step(fmt.Sprintf(messages.ProvisionStepRebootFmt, int(o.plan.RebootDelay/time.Second)))
	if err := runner.Exec(ctx, o.deps.Runner, rebootCommand(o.plan.RebootDelay)); err != nil {
		return OutcomeFailed, fmt.Errorf(messages.ProvisionRebootFmt, err)
	}
	return OutcomeRebootScheduled, nil
}

func (o *Orchestrator) installDistribution(ctx context.Context) error {
	dist, err := o.deps.Probes.DistributionState(ctx)
	if err != nil {
		o.deps.Logger.Warn("distribution probe failed; treating as absent", "launcher", o.plan.Launcher, "err", err)
	}
	if dist.Installed() {
		o.deps.Logger.Info("distribution already installed", "distribution", o.plan.Distribution)
		return nil
	}

	pkg, err := o.deps.Downloader.Fetch(ctx, o.plan.PackageURL, o.plan.PackageSHA)
	if err != nil {
		return fmt.Errorf(messages.ProvisionDownloadFmt, o.plan.PackageURL, err)
	}
	steps := []runner.Command{
		addAppxCommand(pkg),
		launcherCommand(o.plan.Launcher, "install", "--root"),
		wslCommand("-s", o.plan.Distribution),
		wslCommand("--set-version", o.plan.Distribution, strconv.Itoa(o.plan.WSLVersion)),
	}
	for _, cmd := range steps {
		if err := runner.Exec(ctx, o.deps.Runner, cmd); err != nil {
			return fmt.Errorf(messages.ProvisionInstallFmt, o.plan.Distribution, err)
		}
	}
	return nil
}

func (o *Orchestrator) upgradeDistribution(ctx context.Context) error {
	if o.plan.PreUpgrade != nil {
		if err := o.plan.PreUpgrade(ctx, o.deps.Runner, o.plan.Launcher); err != nil {
			return fmt.Errorf(messages.ProvisionPreUpgradeFmt, err)
		}
	}
	for _, cmd := range []runner.Command{aptUpdateCommand(o.plan.Launcher), aptUpgradeCommand(o.plan.Launcher)} {
		if err := runner.Exec(ctx, o.deps.Runner, cmd); err != nil {
			return fmt.Errorf(messages.ProvisionUpgradeFmt, o.plan.Distribution, err)
		}
	}
	return nil
}
