// Package probe derives provisioning state from read-only OS queries.
//
// Nothing is cached: every call re-runs the underlying query, so callers always see
// the current state of the host regardless of reboots, crashes, or manual changes.
package probe

import (
	"context"
	"fmt"

	"github.com/conn-castle/wsl-setup/internal/runner"
)

// FeatureState is the state reported for a Windows optional feature.
type FeatureState string

// Known feature states. Anything else parses as FeatureUnknown.
const (
	FeatureEnabled                    FeatureState = "Enabled"
	FeatureDisabled                   FeatureState = "Disabled"
	FeatureDisabledWithPayloadRemoved FeatureState = "DisabledWithPayloadRemoved"
	FeatureEnablePending              FeatureState = "EnablePending"
	FeatureDisablePending             FeatureState = "DisablePending"
	FeatureUnknown                    FeatureState = "Unknown"
)

// Enabled reports whether s is exactly FeatureEnabled.
func (s FeatureState) Enabled() bool {
	return s == FeatureEnabled
}

// ParseFeatureState maps trimmed query output to a FeatureState.
// Matching is exact; absent or unrecognised output is FeatureUnknown.
func ParseFeatureState(output string, ok bool) FeatureState {
	if !ok {
		return FeatureUnknown
	}
	switch state := FeatureState(output); state {
	case FeatureEnabled, FeatureDisabled, FeatureDisabledWithPayloadRemoved, FeatureEnablePending, FeatureDisablePending:
		return state
	default:
		return FeatureUnknown
	}
}

// DistributionState reports whether the distribution's command-line entry point is present.
type DistributionState string

const (
	DistributionInstalled DistributionState = "Installed"
	DistributionAbsent    DistributionState = "Absent"
)

// Installed reports whether s is DistributionInstalled.
func (s DistributionState) Installed() bool {
	return s == DistributionInstalled
}

// ParseDistributionState returns DistributionInstalled only for the exact literal "True".
func ParseDistributionState(output string, ok bool) DistributionState {
	if ok && output == "True" {
		return DistributionInstalled
	}
	return DistributionAbsent
}

// Prober runs the state queries through a Runner.
type Prober struct {
	Runner runner.Runner
	// Feature is the optional feature whose state gates provisioning.
	Feature string
	// Launcher is the distribution's command-line entry point, without extension.
	Launcher string
}

// FeatureState queries the configured optional feature.
// On error the state is FeatureUnknown.
func (p Prober) FeatureState(ctx context.Context) (FeatureState, error) {
	out, ok, err := runner.Capture(ctx, p.Runner, FeatureQuery(p.Feature))
	if err != nil {
		return FeatureUnknown, err
	}
	return ParseFeatureState(out, ok), nil
}

// DistributionState queries for the distribution launcher on PATH.
// On error the state is DistributionAbsent.
func (p Prober) DistributionState(ctx context.Context) (DistributionState, error) {
	out, ok, err := runner.Capture(ctx, p.Runner, DistributionQuery(p.Launcher))
	if err != nil {
		return DistributionAbsent, err
	}
	return ParseDistributionState(out, ok), nil
}

// featureScript prints the feature state. Get-WindowsOptionalFeature needs administrative
// rights, so without them it falls back to Win32_OptionalFeature, which standard users can
// read but which reports no pending states.
const featureScript = "try { (Get-WindowsOptionalFeature -Online -FeatureName %[1]s -ErrorAction Stop).State } " +
	"catch { switch ((Get-CimInstance -ClassName Win32_OptionalFeature -Filter 'Name=''%[1]s''').InstallState) " +
	"{ 1 {'Enabled'} 2 {'Disabled'} 3 {'DisabledWithPayloadRemoved'} default {'Unknown'} } }"

// FeatureQuery returns the PowerShell command printing the feature's state.
func FeatureQuery(feature string) runner.Command {
	return powershell(fmt.Sprintf(featureScript, feature))
}

// DistributionQuery returns the PowerShell command printing True when launcher resolves.
func DistributionQuery(launcher string) runner.Command {
	return powershell(fmt.Sprintf("(Get-Command -ErrorAction SilentlyContinue %s) -ne $null", launcher))
}

func powershell(script string) runner.Command {
	return runner.Command{
		Name: "powershell.exe",
		Args: []string{"-NoProfile", "-NonInteractive", "-Command", script},
	}
}
