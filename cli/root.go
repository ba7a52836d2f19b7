// Package cli assembles the classhelper command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/MLinh204/Class-Helper-Admin/cli/cmd"
	"github.com/MLinh204/Class-Helper-Admin/cli/cmd/auth"
	configcmd "github.com/MLinh204/Class-Helper-Admin/cli/cmd/config"
	"github.com/MLinh204/Class-Helper-Admin/cli/cmd/overview"
	"github.com/MLinh204/Class-Helper-Admin/cli/cmd/resources"
	"github.com/MLinh204/Class-Helper-Admin/cli/helpers"
	"github.com/MLinh204/Class-Helper-Admin/pkg/config"
	"github.com/MLinh204/Class-Helper-Admin/pkg/logger"
	"github.com/MLinh204/Class-Helper-Admin/pkg/version"
	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "classhelper",
		Short: "Admin console for the Class Helper platform",
		Long: `classhelper manages Class Helper users, students, attendance, salaries and
vocabulary from the terminal. Lists open as interactive tables in a terminal
and print JSON when piped.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			if err := SetupGlobalConfig(c); err != nil {
				return cmd.HandleCommonErrors(
					helpers.WrapCliError("CONFIG_ERROR", "Failed to load configuration", err),
					helpers.DetectMode(c),
				)
			}
			return nil
		},
	}
	addGlobalFlags(root)
	root.AddCommand(resources.Commands()...)
	root.AddCommand(
		overview.Cmd(),
		auth.Cmd(),
		configcmd.NewConfigCommand(),
		versionCmd(),
	)
	return root
}

func addGlobalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String("config", "classhelper.yaml", "Path to the config file")
	flags.String("env-file", ".env", "Path to the environment variables file")
	flags.String("api-url", "", "Class Helper API base URL")
	flags.String("token", "", "Bearer token to use instead of the stored session")
	flags.Duration("timeout", 0, "Request timeout")
	flags.String("credentials", "", "Path to the credentials file")
	flags.String("format", "auto", "Output mode (auto, json, tui)")
	flags.Bool("interactive", false, "Force interactive mode")
	flags.Bool("no-color", false, "Disable colored output")
	flags.String("log-level", "info", "Log level (debug, info, warn, error, disabled)")
	flags.Bool("log-json", false, "Log in JSON format")
	flags.Bool("log-source", false, "Include source locations in logs")
}

// SetupGlobalConfig loads the .env file and the configuration, then installs
// the logger and the config on the command context.
func SetupGlobalConfig(cmd *cobra.Command) error {
	if _, err := loadEnvFile(cmd); err != nil {
		return fmt.Errorf("failed to load environment file: %w", err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cliFlags, err := extractCLIFlags(cmd)
	if err != nil {
		return err
	}
	var sources []config.Source
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config file: %w", err)
	}
	if configFile != "" {
		sources = append(sources, config.NewYAMLProvider(configFile))
	}
	if len(cliFlags) > 0 {
		sources = append(sources, config.NewCLIProvider(cliFlags))
	}
	service := config.NewService()
	cfg, err := service.Load(ctx, sources...)
	if err != nil {
		return err
	}
	_, _, logSource, err := logger.GetLoggerConfig(cmd)
	if err != nil {
		return err
	}
	ctx = logger.SetupLogger(ctx, cfg.Runtime.LogLevel, cfg.Runtime.LogJSON, logSource)
	ctx = config.ContextWithConfig(ctx, cfg, service)
	cmd.SetContext(ctx)
	logger.FromContext(ctx).Debug("configuration loaded", "config_file", configFile, "api_url", cfg.API.BaseURL)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// The version does not need a configured API.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(c *cobra.Command, _ []string) error {
			return helpers.NewOutputWriter(c.OutOrStdout(), helpers.OutputFormatJSON).WriteData(version.Get())
		},
	}
}
