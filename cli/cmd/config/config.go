package config

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/MLinh204/Class-Helper-Admin/cli/cmd"
	"github.com/MLinh204/Class-Helper-Admin/cli/helpers"
	"github.com/MLinh204/Class-Helper-Admin/cli/tui/styles"
	"github.com/MLinh204/Class-Helper-Admin/pkg/config"
	"github.com/MLinh204/Class-Helper-Admin/pkg/logger"
	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command using the unified command pattern
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management and diagnostics",
		Long:  `Inspect and validate the resolved classhelper configuration.`,
	}
	cmd.AddCommand(
		NewConfigShowCommand(),
		NewConfigValidateCommand(),
	)
	return cmd
}

// NewConfigShowCommand creates the config show subcommand
func NewConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration values",
		Long: `Display the resolved configuration with secrets redacted.
Supports JSON, YAML, and table output formats.`,
		RunE: executeConfigShowCommand,
	}
	cmd.Flags().StringP("output", "o", "table", "Output format (json, yaml, table)")
	cmd.Flags().Bool("sources", false, "Show which source provided each value")
	return cmd
}

func executeConfigShowCommand(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
		JSON: handleConfigShow,
		TUI:  handleConfigShow,
	}, args)
}

// handleConfigShow renders the same way in both modes; --output decides.
func handleConfigShow(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	log := logger.FromContext(ctx)
	log.Debug("executing config show command", "mode", executor.GetMode())
	raw, err := cobraCmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	format, err := helpers.ParseOutputFormat(raw)
	if err != nil {
		return err
	}
	showSources, err := cobraCmd.Flags().GetBool("sources")
	if err != nil {
		return fmt.Errorf("failed to get sources flag: %w", err)
	}
	var sources map[string]config.SourceType
	if showSources {
		sources = collectSources(config.ServiceFromContext(ctx), executor.Config())
	}
	return formatConfigOutput(cobraCmd, executor.Config(), sources, format)
}

func collectSources(service config.Service, cfg *config.Config) map[string]config.SourceType {
	out := make(map[string]config.SourceType)
	for key := range config.Flatten(cfg) {
		source := config.SourceDefault
		if service != nil {
			if s := service.GetSource(key); s != "" {
				source = s
			}
		}
		out[key] = source
	}
	return out
}

// configTable lists keys with their values and, optionally, their sources.
type configTable struct {
	values  map[string]any
	sources map[string]config.SourceType
}

func (t configTable) Headers() []string {
	if t.sources != nil {
		return []string{"KEY", "VALUE", "SOURCE"}
	}
	return []string{"KEY", "VALUE"}
}

func (t configTable) Rows() [][]string {
	rows := make([][]string, 0, len(t.values))
	for _, key := range slices.Sorted(maps.Keys(t.values)) {
		row := []string{key, fmt.Sprint(t.values[key])}
		if t.sources != nil {
			row = append(row, string(t.sources[key]))
		}
		rows = append(rows, row)
	}
	return rows
}

// formatConfigOutput formats and outputs configuration based on requested format
func formatConfigOutput(
	cobraCmd *cobra.Command,
	cfg *config.Config,
	sources map[string]config.SourceType,
	format helpers.OutputFormat,
) error {
	values := config.Flatten(cfg)
	writer := helpers.NewOutputWriter(cobraCmd.OutOrStdout(), format).WithColor(helpers.ShouldUseColor(cobraCmd))
	if format == helpers.OutputFormatTable {
		return writer.WriteData(configTable{values: values, sources: sources})
	}
	output := map[string]any{"config": values}
	if sources != nil {
		output["sources"] = sources
	}
	return writer.WriteData(output)
}

// NewConfigValidateCommand creates the config validate subcommand
func NewConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the resolved configuration",
		Long:  `Validate the merged configuration (file, environment and flags) against its rules.`,
		RunE:  executeConfigValidateCommand,
	}
}

func executeConfigValidateCommand(cobraCmd *cobra.Command, args []string) error {
	return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
		JSON: handleConfigValidateJSON,
		TUI:  handleConfigValidateTUI,
	}, args)
}

func validateConfig(ctx context.Context, cfg *config.Config) error {
	service := config.ServiceFromContext(ctx)
	if service == nil {
		service = config.NewService()
	}
	return service.Validate(cfg)
}

func handleConfigValidateJSON(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	logger.FromContext(ctx).Debug("executing config validate command in JSON mode")
	if err := validateConfig(ctx, executor.Config()); err != nil {
		return helpers.WrapCliError("INVALID_CONFIG", "Configuration is invalid", err)
	}
	return helpers.NewOutputWriter(cobraCmd.OutOrStdout(), helpers.OutputFormatJSON).WriteData(map[string]any{
		"valid":   true,
		"message": "Configuration is valid",
	})
}

func handleConfigValidateTUI(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	logger.FromContext(ctx).Debug("executing config validate command in TUI mode")
	if err := validateConfig(ctx, executor.Config()); err != nil {
		return helpers.WrapCliError("INVALID_CONFIG", "Configuration is invalid", err)
	}
	fmt.Fprintln(cobraCmd.OutOrStdout(), styles.SuccessStyle.Render("✅ Configuration is valid"))
	return nil
}
