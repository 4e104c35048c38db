package messages

// Provisioning messages.
const (
	ProvisionNotElevated       = "enabling Windows features requires administrative rights"
	ProvisionDepRequiredFmt    = "provision: %s is required"
	ProvisionCheckElevationFmt = "failed to check for administrative rights: %w"
	ProvisionFeatureUnknownFmt = "could not determine the state of %s: %w"
	ProvisionEnableFeatureFmt  = "failed to enable feature %s: %w"
	ProvisionRebootFmt         = "failed to schedule reboot: %w"
	ProvisionDownloadFmt       = "failed to fetch distribution package from %s: %w"
	ProvisionInstallFmt        = "failed to install %s: %w"
	ProvisionPreUpgradeFmt     = "failed to clean package state: %w"
	ProvisionUpgradeFmt        = "failed to upgrade %s: %w"
	ProvisionConfirmReboot     = "Windows must restart to finish enabling WSL. Reboot now?"

	ProvisionStepEnable     = "Enabling Windows features"
	ProvisionStepRegister   = "Registering to resume after the reboot"
	ProvisionStepRebootFmt  = "Scheduling reboot in %d seconds"
	ProvisionStepDeregister = "Removing resume registration"
	ProvisionStepInstall    = "Installing distribution"
	ProvisionStepUpgrade    = "Upgrading distribution packages"
)
