package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "wslsetup"
	// RootShort is the short description for the root command.
	RootShort = "Enable WSL, install a Linux distribution, and upgrade it"
	RootLong  = `Provision the Windows Subsystem for Linux on this machine.

Each run inspects the machine and performs the next remaining stage:
enable the optional features (followed by a reboot and an automatic
relaunch at the next logon), install the distribution, and upgrade its
packages. Running it again on a provisioned machine only upgrades.`
	RootVersionFlag = "Print version and exit"
	RootFlagConfig  = "Path to the TOML config file (default: wslsetup.toml beside the executable)"
	RootFlagVerbose = "Log every external command"
	RootFlagNoWait  = "Exit without waiting for a keypress"
	RootFlagYes     = "Reboot without asking for confirmation"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	StepFmt               = "==> %s\n"
	RunRebootScheduledFmt = "Rebooting in %d seconds. %s will resume after you log in again.\n"
	RunRebootDeclinedFmt  = "Reboot postponed. Restart Windows when ready; %s will resume after you log in again.\n"
	RunUpgradedFmt        = "%s is installed and up to date.\n"
	RunPressAnyKey        = "Press any key to exit..."
	RunNotElevatedHint    = "Re-run wslsetup from an elevated (Run as administrator) terminal."

	StatusUse           = "status"
	StatusShort         = "Report the provisioning stage without changing anything"
	StatusHeaderFmt     = "Provisioning status for %s\n"
	StatusStageFmt      = "\nNext stage: %s\n"
	StatusResultLineFmt = "%s %-13s %s\n"
	StatusRecommendPre  = "       -> "

	UnregisterUse     = "unregister"
	UnregisterShort   = "Remove the logon entry that resumes provisioning after a reboot"
	UnregisterDoneFmt = "Removed logon entry %q.\n"
	UnregisterNoneFmt = "No logon entry %q was registered.\n"

	ConfigUse   = "config"
	ConfigShort = "Print the effective configuration as TOML"
)
