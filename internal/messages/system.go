package messages

// Messages for external commands, the logon registration, downloads, and the console.
const (
	RunnerExitFmt        = "%s exited with code %d"
	RunnerStartFmt       = "failed to start %s: %w"
	RunnerInterruptedFmt = "%s interrupted: %w"

	StartupUnsupported          = "logon registration is not supported on this platform"
	StartupOpFailedFmt          = "%s logon entry %q: %v"
	StartupUnknownMechanismFmt  = "unknown startup mechanism %q"
	StartupResolveExecutableFmt = "resolve executable path: %w"

	DownloadCreateDirFmt        = "failed to create download directory: %w"
	DownloadFailedFmt           = "failed to download %s: %w"
	DownloadCreateRequestFmt    = "failed to create download request: %w"
	DownloadTimeoutFmt          = "download of %s timed out"
	DownloadUnexpectedStatusFmt = "download of %s failed: unexpected status %s"
	DownloadCreateTempFileFmt   = "failed to create temp file: %w"
	DownloadCloseTempFileFmt    = "failed to close temp file: %w"
	DownloadTooLargeFmt         = "download of %s is too large: %d bytes exceeds limit of %d"
	DownloadMoveFileFmt         = "failed to move downloaded file into place: %w"
	DownloadOpenFileFmt         = "failed to open %s: %w"
	DownloadHashFileFmt         = "failed to hash %s: %w"
	DownloadChecksumMismatchFmt = "checksum mismatch for %s: expected %s, got %s"

	TerminalConfirmRequiresTerminal = "confirmation requires an interactive terminal; re-run with --yes"
	TerminalConfirmYes              = "Reboot now"
	TerminalConfirmNo               = "Later"
)
