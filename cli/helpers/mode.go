package helpers

import (
	"os"

	"github.com/MLinh204/Class-Helper-Admin/pkg/config"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var ciVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"BUILDKITE",
	"DRONE",
	"JENKINS_URL",
	"TF_BUILD", // Azure DevOps
	"TEAMCITY_VERSION",
	"CODEBUILD_BUILD_ID",
}

func isRunningInCI() bool {
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// explicitMode resolves cli.default_format. "auto" defers to detection.
func explicitMode(cfg *config.Config) (Mode, bool) {
	switch cfg.CLI.DefaultFormat {
	case string(OutputFormatJSON):
		return ModeJSON, true
	case string(OutputFormatTUI):
		return ModeTUI, true
	default:
		return ModeJSON, false
	}
}

func isInteractiveEnvironment(cfg *config.Config) bool {
	if cfg.CLI.Interactive {
		return true
	}
	if isRunningInCI() {
		return false
	}
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return false
	}
	term := os.Getenv("TERM")
	return term != "dumb" && term != ""
}

// DetectMode picks TUI or JSON from the resolved configuration and the
// terminal. Without a configuration it falls back to JSON.
func DetectMode(cmd *cobra.Command) Mode {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return ModeJSON
	}
	if mode, found := explicitMode(cfg); found {
		return mode
	}
	if isInteractiveEnvironment(cfg) {
		return ModeTUI
	}
	return ModeJSON
}

// ShouldUseColor determines if colored output should be used
func ShouldUseColor(cmd *cobra.Command) bool {
	if cfg := config.FromContext(cmd.Context()); cfg != nil && cfg.CLI.NoColor {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || isRunningInCI() {
		return false
	}
	if !isTerminal(os.Stdout) {
		return false
	}
	term := os.Getenv("TERM")
	return term != "dumb" && term != ""
}
