package config

import "fmt"

// Set at build time via -ldflags "-X github/chapool/go-sweeper/internal/config.Commit=..."
var (
	ModuleName = "go-sweeper"
	Commit     = "< 40 chars git commit hash via ldflags >"
	BuildDate  = "< YYYY-MM-DDTHH:MM:SS+ZZ:ZZ via ldflags >"
)

// GetFormattedBuildArgs returns module name, commit and build date on one line.
func GetFormattedBuildArgs() string {
	return fmt.Sprintf("%v @ %v (%v)", ModuleName, Commit, BuildDate)
}
