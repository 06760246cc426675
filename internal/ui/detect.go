package ui

import (
	"os"

	"golang.org/x/term"
)

// NonInteractiveEnvVar forces non-interactive behaviour when set to "1".
const NonInteractiveEnvVar = "DWH_NON_INTERACTIVE"

// IsInteractive reports whether a human can answer prompts on in.
//
// Returns false if:
//   - DWH_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//   - in is not a terminal (piped input, cron, containers)
func IsInteractive(in *os.File) bool {
	if os.Getenv(NonInteractiveEnvVar) == "1" {
		return false
	}
	if os.Getenv("CI") != "" {
		return false
	}
	if in == nil {
		return false
	}
	return term.IsTerminal(int(in.Fd()))
}
