package version

// Build-time variables set by ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)
