package version

import "fmt"

// Version and Commit are injected at build time via -ldflags; these are
// the development placeholders.
var (
	Version = "0.1.0"
	Commit  = "dev"
)

// Full returns the version string printed by the CLI's --version flag.
func Full() string {
	return fmt.Sprintf("hfhub %s (%s)", Version, Commit)
}
