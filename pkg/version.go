package ebirddb

// Version and Build are set by the build flags via ldflags.
var (
	Version = "v0.1.0"
	Build   = "n/a"
)
