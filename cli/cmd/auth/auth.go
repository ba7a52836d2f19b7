// Package auth implements `classhelper auth`: login, logout and status of the
// stored session.
package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MLinh204/Class-Helper-Admin/cli/api"
	"github.com/MLinh204/Class-Helper-Admin/cli/cmd"
	"github.com/MLinh204/Class-Helper-Admin/cli/helpers"
	"github.com/MLinh204/Class-Helper-Admin/cli/tui/models"
	"github.com/MLinh204/Class-Helper-Admin/cli/tui/styles"
	"github.com/MLinh204/Class-Helper-Admin/pkg/credentials"
	"github.com/MLinh204/Class-Helper-Admin/pkg/logger"
	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Cmd returns the auth command group
func Cmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "auth",
		Short: "Manage the API session",
		Long:  "Log in to the Class Helper API, inspect the stored session and log out.",
	}
	c.AddCommand(LoginCmd(), LogoutCmd(), StatusCmd())
	return c
}

// LoginCmd returns `auth login`. The password is read from the terminal
// without echo, or from stdin when it is piped.
func LoginCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Example: `  classhelper auth login --username admin
  echo "$PASSWORD" | classhelper auth login --username admin --format json`,
		Args: cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireClient: true}, cmd.ModeHandlers{
				JSON: loginHandler(false),
				TUI:  loginHandler(true),
			}, args)
		},
	}
	c.Flags().StringP("username", "u", "", "Account username")
	return c
}

func loginHandler(interactive bool) cmd.HandlerFunc {
	return func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
		log := logger.FromContext(ctx)
		username, _ := cobraCmd.Flags().GetString("username")
		username = strings.TrimSpace(username)
		if username == "" && interactive {
			form := huh.NewForm(huh.NewGroup(huh.NewInput().Title("Username").Value(&username)))
			if err := models.RunForm(ctx, form); err != nil {
				return err
			}
			username = strings.TrimSpace(username)
		}
		if username == "" {
			return helpers.NewCliError("MISSING_FLAG", "username is required, pass --username")
		}
		password, err := readPassword(cobraCmd.InOrStdin(), cobraCmd.ErrOrStderr())
		if err != nil {
			return err
		}
		token, err := executor.Client().Login(ctx, api.Credentials{Username: username, Password: password})
		if err != nil {
			return err
		}
		store := executor.Credentials()
		if err := store.Save(ctx, credentials.Credentials{Token: token, Username: username}); err != nil {
			return err
		}
		log.Info("logged in", "username", username)
		return writeResult(cobraCmd, executor, map[string]any{
			"username":    username,
			"logged_in":   true,
			"credentials": store.Path(),
		}, fmt.Sprintf("Logged in as %s", username))
	}
}

// readPassword prompts on w when in is an interactive terminal and reads one
// line from in otherwise.
func readPassword(in io.Reader, w io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(w, "Password: ")
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", helpers.NewCliError("MISSING_INPUT", "password is required", "pipe it on stdin or run in a terminal")
	}
	return password, nil
}

// LogoutCmd returns `auth logout`. The local session is cleared even when
// the server cannot be reached.
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireClient: true}, cmd.ModeHandlers{
				JSON: runLogout,
				TUI:  runLogout,
			}, args)
		},
	}
}

func runLogout(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	log := logger.FromContext(ctx)
	if executor.Client().HasToken() {
		if err := executor.Client().Logout(ctx); err != nil {
			log.Warn("server logout failed, clearing local session anyway", "error", err)
		}
	}
	if err := executor.Credentials().Clear(ctx); err != nil {
		return err
	}
	return writeResult(cobraCmd, executor, map[string]any{"logged_in": false}, "Logged out")
}

// StatusCmd returns `auth status`.
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
				JSON: runStatus,
				TUI:  runStatus,
			}, args)
		},
	}
}

func runStatus(_ context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	store := executor.Credentials()
	creds, err := store.Load()
	if errors.Is(err, credentials.ErrNotLoggedIn) {
		return writeStatus(cobraCmd, executor, map[string]any{
			"logged_in":   false,
			"credentials": store.Path(),
		}, styles.WarningStyle.Render("Not logged in"))
	}
	if err != nil {
		return err
	}
	who := creds.Username
	if who == "" {
		who = "unknown user"
	}
	return writeStatus(cobraCmd, executor, map[string]any{
		"logged_in":   true,
		"username":    creds.Username,
		"saved_at":    creds.SavedAt,
		"credentials": store.Path(),
	}, styles.SuccessStyle.Render(fmt.Sprintf("Logged in as %s", who))+
		styles.HelpStyle.Render(fmt.Sprintf(" (since %s)", humanize.Time(creds.SavedAt))))
}

func writeStatus(cobraCmd *cobra.Command, executor *cmd.CommandExecutor, data map[string]any, line string) error {
	out := cobraCmd.OutOrStdout()
	if executor.GetMode() == helpers.ModeJSON {
		return helpers.NewOutputWriter(out, helpers.OutputFormatJSON).WriteData(map[string]any{"data": data})
	}
	_, err := fmt.Fprintln(out, line)
	return err
}

func writeResult(cobraCmd *cobra.Command, executor *cmd.CommandExecutor, data map[string]any, message string) error {
	return writeStatus(cobraCmd, executor, data, styles.SuccessStyle.Render("✅ "+message))
}
