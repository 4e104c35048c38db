// Package status reports how far provisioning has progressed on this machine.
package status

import (
	"context"
	"fmt"

	"github.com/conn-castle/wsl-setup/internal/messages"
	"github.com/conn-castle/wsl-setup/internal/provision"
	"github.com/conn-castle/wsl-setup/internal/startup"
)

// Status is the outcome of one check.
type Status string

const (
	StatusOK   Status = "OK"
	StatusWarn Status = "WARN"
	StatusInfo Status = "INFO"
)

// Result is one line of the status report.
type Result struct {
	Status         Status
	CheckName      string
	Message        string
	Recommendation string
}

// Inputs are the read-only views the report is built from.
type Inputs struct {
	Probes    provision.Probes
	Registrar startup.Registrar
	// IsElevated is optional.
	IsElevated   func() (bool, error)
	Feature      string
	Distribution string
	Entry        string
}

// Collect runs every check. It never changes the machine.
func Collect(ctx context.Context, in Inputs) []Result {
	feature, enabled := checkFeature(ctx, in)
	results := []Result{feature}
	results = append(results, checkDistribution(ctx, in, enabled))
	results = append(results, checkRegistration(ctx, in, enabled))
	if in.IsElevated != nil {
		results = append(results, checkElevation(in.IsElevated, enabled))
	}
	return results
}

// Stage infers the next provisioning stage.
func Stage(ctx context.Context, in Inputs) (provision.Stage, error) {
	return provision.Detect(ctx, in.Probes, in.Registrar, in.Entry)
}

func checkFeature(ctx context.Context, in Inputs) (Result, bool) {
	state, err := in.Probes.FeatureState(ctx)
	if err != nil {
		return Result{
			Status:         StatusWarn,
			CheckName:      messages.StatusCheckFeature,
			Message:        fmt.Sprintf(messages.StatusFeatureProbeFailedFmt, in.Feature, err),
			Recommendation: messages.StatusFeatureRecommend,
		}, false
	}
	msg := fmt.Sprintf(messages.StatusFeatureFmt, in.Feature, state)
	if !state.Enabled() {
		return Result{
			Status:         StatusWarn,
			CheckName:      messages.StatusCheckFeature,
			Message:        msg,
			Recommendation: messages.StatusFeatureRecommend,
		}, false
	}
	return Result{Status: StatusOK, CheckName: messages.StatusCheckFeature, Message: msg}, true
}

func checkDistribution(ctx context.Context, in Inputs, enabled bool) Result {
	if !enabled {
		return Result{Status: StatusInfo, CheckName: messages.StatusCheckDistribution, Message: messages.StatusDistributionSkipped}
	}
	state, _ := in.Probes.DistributionState(ctx)
	if state.Installed() {
		return Result{
			Status:    StatusOK,
			CheckName: messages.StatusCheckDistribution,
			Message:   fmt.Sprintf(messages.StatusDistributionInstalledFmt, in.Distribution),
		}
	}
	return Result{
		Status:    StatusWarn,
		CheckName: messages.StatusCheckDistribution,
		Message:   fmt.Sprintf(messages.StatusDistributionAbsentFmt, in.Distribution),
	}
}

func checkRegistration(ctx context.Context, in Inputs, enabled bool) Result {
	registered, err := in.Registrar.Registered(ctx, in.Entry)
	switch {
	case err != nil:
		return Result{
			Status:    StatusWarn,
			CheckName: messages.StatusCheckRegistration,
			Message:   fmt.Sprintf(messages.StatusRegistrationFailedFmt, in.Entry, err),
		}
	case registered && enabled:
		// Left behind when a resumed run failed before deregistering.
		return Result{
			Status:         StatusWarn,
			CheckName:      messages.StatusCheckRegistration,
			Message:        fmt.Sprintf(messages.StatusRegisteredStaleFmt, in.Entry),
			Recommendation: messages.StatusRegisteredStaleRecommend,
		}
	case registered:
		return Result{
			Status:    StatusInfo,
			CheckName: messages.StatusCheckRegistration,
			Message:   fmt.Sprintf(messages.StatusRegisteredFmt, in.Entry),
		}
	default:
		return Result{
			Status:    StatusOK,
			CheckName: messages.StatusCheckRegistration,
			Message:   fmt.Sprintf(messages.StatusNotRegisteredFmt, in.Entry),
		}
	}
}

func checkElevation(isElevated func() (bool, error), enabled bool) Result {
	elevated, err := isElevated()
	switch {
	case err != nil:
		return Result{
			Status:    StatusWarn,
			CheckName: messages.StatusCheckElevation,
			Message:   fmt.Sprintf(messages.StatusElevationFailedFmt, err),
		}
	case elevated:
		return Result{Status: StatusOK, CheckName: messages.StatusCheckElevation, Message: messages.StatusElevated}
	case enabled:
		return Result{Status: StatusInfo, CheckName: messages.StatusCheckElevation, Message: messages.StatusNotElevated}
	default:
		return Result{
			Status:         StatusWarn,
			CheckName:      messages.StatusCheckElevation,
			Message:        messages.StatusNotElevated,
			Recommendation: messages.StatusNotElevatedRecommend,
		}
	}
}
