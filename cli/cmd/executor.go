package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/MLinh204/Class-Helper-Admin/cli/api"
	"github.com/MLinh204/Class-Helper-Admin/cli/helpers"
	"github.com/MLinh204/Class-Helper-Admin/cli/tui/models"
	"github.com/MLinh204/Class-Helper-Admin/pkg/config"
	"github.com/MLinh204/Class-Helper-Admin/pkg/credentials"
	"github.com/MLinh204/Class-Helper-Admin/pkg/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// CommandExecutor handles common setup and execution patterns for CLI commands.
// It eliminates boilerplate code by providing a single place for:
// - Client creation (auth)
// - Mode detection
// - Context cancellation
// - Error handling
type CommandExecutor struct {
	mode helpers.Mode
	cfg  *config.Config

	// Populated as needed
	store  *credentials.Store
	client *api.Client
}

// HandlerFunc defines the signature for command handlers.
type HandlerFunc func(ctx context.Context, cmd *cobra.Command, executor *CommandExecutor, args []string) error

// ModeHandlers contains handlers for different execution modes.
type ModeHandlers struct {
	JSON HandlerFunc
	TUI  HandlerFunc
}

// ExecutorOptions allows customization of the command executor
type ExecutorOptions struct {
	// RequireClient builds an API client without demanding a stored session.
	RequireClient bool
	// RequireAuth builds an API client and fails early when no token is
	// available.
	RequireAuth bool
}

// fs is swapped for an in-memory filesystem in tests.
var fs = afero.NewOsFs()

// NewCommandExecutor creates a new command executor with all necessary setup.
func NewCommandExecutor(cmd *cobra.Command, opts ExecutorOptions) (*CommandExecutor, error) {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	mode := helpers.DetectMode(cmd)
	log.Debug("detected execution mode", "mode", mode)
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return nil, fmt.Errorf("configuration not found in context")
	}
	executor := &CommandExecutor{
		mode:  mode,
		cfg:   cfg,
		store: credentials.NewStore(fs, cfg.CLI.CredentialsPath),
	}
	if !opts.RequireClient && !opts.RequireAuth {
		return executor, nil
	}
	client, err := api.NewClient(cfg, executor.store)
	if err != nil {
		return nil, err
	}
	if opts.RequireAuth && !client.HasToken() {
		return nil, helpers.NewAuthError("not logged in, run `classhelper auth login` or pass --token")
	}
	executor.client = client
	return executor, nil
}

// Execute runs the appropriate handler based on the detected mode.
func (e *CommandExecutor) Execute(ctx context.Context, cmd *cobra.Command, handlers ModeHandlers, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	switch e.mode {
	case helpers.ModeJSON:
		if handlers.JSON == nil {
			return fmt.Errorf("JSON mode handler not implemented")
		}
		return handlers.JSON(ctx, cmd, e, args)
	case helpers.ModeTUI:
		if handlers.TUI == nil {
			return fmt.Errorf("TUI mode handler not implemented")
		}
		return handlers.TUI(ctx, cmd, e, args)
	default:
		return fmt.Errorf("unsupported mode: %s", e.mode)
	}
}

// Client returns the API client. It is nil unless the executor was built
// with RequireClient or RequireAuth.
func (e *CommandExecutor) Client() *api.Client {
	return e.client
}

// Credentials returns the session store.
func (e *CommandExecutor) Credentials() *credentials.Store {
	return e.store
}

func (e *CommandExecutor) Config() *config.Config {
	return e.cfg
}

// GetMode returns the detected execution mode.
func (e *CommandExecutor) GetMode() helpers.Mode {
	return e.mode
}

// ExecuteCommand is a convenience function that combines executor creation and execution.
func ExecuteCommand(cmd *cobra.Command, opts ExecutorOptions, handlers ModeHandlers, args []string) error {
	executor, err := NewCommandExecutor(cmd, opts)
	if err != nil {
		return HandleCommonErrors(err, helpers.DetectMode(cmd))
	}
	return HandleCommonErrors(executor.Execute(cmd.Context(), cmd, handlers, args), executor.GetMode())
}

// ValidateRequiredFlags checks that all required flags are present and valid.
func ValidateRequiredFlags(cmd *cobra.Command, required []string) error {
	for _, flag := range required {
		if !cmd.Flags().Changed(flag) {
			return helpers.NewCliError("MISSING_FLAG", fmt.Sprintf("required flag '%s' not specified", flag))
		}

		if value, err := cmd.Flags().GetString(flag); err == nil && value == "" {
			return helpers.NewCliError("EMPTY_FLAG", fmt.Sprintf("required flag '%s' cannot be empty", flag))
		}
	}
	return nil
}

// HandleCommonErrors provides consistent error handling across all commands.
func HandleCommonErrors(err error, mode helpers.Mode) error {
	if err == nil {
		return nil
	}
	cliErr := categorizeError(err)
	helpers.OutputError(cliErr, mode)
	return cliErr
}

// categorizeError converts errors to structured CLI errors
func categorizeError(err error) *helpers.CliError {
	var cliErr *helpers.CliError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	var validation *api.ValidationError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, models.ErrCanceled):
		return helpers.WrapCliError("OPERATION_CANCELED", "Operation was canceled by user", err)
	case errors.Is(err, context.DeadlineExceeded), helpers.IsTimeoutError(err):
		return helpers.WrapCliError("OPERATION_TIMEOUT", "Operation timed out", err)
	case errors.As(err, &validation):
		cliErr := helpers.WrapCliError("VALIDATION_ERROR", "Invalid input", err)
		for field, msg := range validation.Fields {
			cliErr.WithContext(field, msg)
		}
		return cliErr
	case errors.Is(err, credentials.ErrNotLoggedIn), helpers.IsAuthError(err):
		return helpers.WrapCliError("AUTH_ERROR", "Authentication failed", err)
	case helpers.IsNetworkError(err):
		return helpers.WrapCliError("NETWORK_ERROR", "Network connection failed", err)
	case api.IsNotFound(err):
		return helpers.WrapCliError("NOT_FOUND", "Record not found", err)
	case errors.Is(err, api.ErrUnsupported):
		return helpers.WrapCliError("UNSUPPORTED", "Operation not supported for this entity", err)
	default:
		return helpers.WrapCliError("COMMAND_FAILED", "Command failed", err)
	}
}
