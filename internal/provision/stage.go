package provision

import (
	"context"

	"github.com/conn-castle/wsl-setup/internal/probe"
	"github.com/conn-castle/wsl-setup/internal/startup"
)

// Stage is the provisioning stage inferred from the host. It is never persisted.
type Stage int

const (
	// StageFeatureDisabled means the compatibility feature still needs enabling.
	StageFeatureDisabled Stage = iota
	// StagePendingReboot means the feature was enabled but the host has not restarted yet.
	StagePendingReboot
	// StageDistributionMissing means the feature is on and the distribution must be installed.
	StageDistributionMissing
	// StageDistributionInstalled means only the package upgrade remains.
	StageDistributionInstalled
	// StageUpgraded is terminal; it is only ever reported by a completed Run.
	StageUpgraded
)

func (s Stage) String() string {
	switch s {
	case StageFeatureDisabled:
		return "feature-disabled"
	case StagePendingReboot:
		return "pending-reboot"
	case StageDistributionMissing:
		return "distribution-missing"
	case StageDistributionInstalled:
		return "distribution-installed"
	case StageUpgraded:
		return "upgraded"
	default:
		return "unknown"
	}
}

// Probes is the read-only view of host state the orchestrator relies on.
type Probes interface {
	FeatureState(ctx context.Context) (probe.FeatureState, error)
	DistributionState(ctx context.Context) (probe.DistributionState, error)
}

// Detect infers the current stage from fresh probes without side effects.
// A probe that fails to run counts as "not yet done" for its stage.
func Detect(ctx context.Context, probes Probes, registrar startup.Registrar, name string) (Stage, error) {
	feature, _ := probes.FeatureState(ctx)
	if !feature.Enabled() {
		if feature == probe.FeatureEnablePending {
			return StagePendingReboot, nil
		}
		registered, err := registrar.Registered(ctx, name)
		if err != nil {
			return StageFeatureDisabled, err
		}
		if registered {
			return StagePendingReboot, nil
		}
		return StageFeatureDisabled, nil
	}
	dist, _ := probes.DistributionState(ctx)
	if dist.Installed() {
		return StageDistributionInstalled, nil
	}
	return StageDistributionMissing, nil
}
