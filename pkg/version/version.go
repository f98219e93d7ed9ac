package version

// Version and Commit are overridden at build time with -ldflags "-X".
var (
	Version = "dev"
	Commit  = "unknown"
)
