package messages

// Status report messages.
const (
	StatusOKLabel   = "[OK]  "
	StatusWarnLabel = "[WARN]"
	StatusInfoLabel = "[INFO]"

	StatusCheckFeature      = "Feature"
	StatusCheckDistribution = "Distribution"
	StatusCheckRegistration = "Registration"
	StatusCheckElevation    = "Elevation"

	StatusFeatureFmt               = "%s is %s"
	StatusFeatureRecommend         = "Run wslsetup to enable it; a reboot follows."
	StatusFeatureProbeFailedFmt    = "could not query %s: %v"
	StatusDistributionInstalledFmt = "%s is installed"
	StatusDistributionAbsentFmt    = "%s is not installed"
	StatusDistributionSkipped      = "checked once the feature is enabled"
	StatusRegisteredFmt            = "%q resumes provisioning at the next logon"
	StatusRegisteredStaleFmt       = "%q is registered but the feature is already enabled"
	StatusRegisteredStaleRecommend = "Run wslsetup (or wslsetup unregister) to clear it."
	StatusNotRegisteredFmt         = "no logon entry %q"
	StatusRegistrationFailedFmt    = "could not query logon entry %q: %v"
	StatusElevated                 = "running with administrative rights"
	StatusNotElevated              = "not running with administrative rights"
	StatusNotElevatedRecommend     = "Enabling features needs an elevated terminal."
	StatusElevationFailedFmt       = "could not determine elevation: %v"
)
