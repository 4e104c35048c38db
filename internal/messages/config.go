package messages

// Config loading and validation messages.
const (
	ConfigResolveExecutableFmt  = "resolve executable for config lookup: %w"
	ConfigReadFileFmt           = "failed to read config %s: %w"
	ConfigInvalidFmt            = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt   = "config %s has unrecognized keys:\n%s"
	ConfigEncodeFmt             = "failed to encode config: %w"
	ConfigExpandDirFmt          = "expand download.dir %q: %w"
	ConfigFieldRequiredFmt      = "config %s: %s is required"
	ConfigLauncherInvalidFmt    = "config %s: distribution.launcher %q must be a bare program name without path or extension"
	ConfigWSLVersionInvalidFmt  = "config %s: distribution.wsl_version must be 1 or 2, got %d"
	ConfigSHA256InvalidFmt      = "config %s: distribution.package_sha256 must be 64 hex characters"
	ConfigFeatureEmptyFmt       = "config %s: features.enable contains an empty feature name"
	ConfigRebootDelayInvalidFmt = "config %s: reboot.delay_seconds must not be negative, got %d"
	ConfigMechanismInvalidFmt   = "config %s: startup.mechanism must be \"task\" or \"registry\", got %q"
	ConfigMaxBytesInvalidFmt    = "config %s: download.max_bytes must not be negative"
)
