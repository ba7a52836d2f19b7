package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MLinh204/Class-Helper-Admin/pkg/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// extractCLIFlags collects the global flags the user set explicitly, keyed by
// flag name, for config.NewCLIProvider.
func extractCLIFlags(cmd *cobra.Command) (map[string]any, error) {
	flags := make(map[string]any)
	var firstErr error
	cmd.Flags().Visit(func(flag *pflag.Flag) {
		if _, ok := config.FlagPaths[flag.Name]; !ok || firstErr != nil {
			return
		}
		value, err := flagValue(cmd.Flags(), flag)
		if err != nil {
			firstErr = fmt.Errorf("failed to read --%s: %w", flag.Name, err)
			return
		}
		flags[flag.Name] = value
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return flags, nil
}

func flagValue(set *pflag.FlagSet, flag *pflag.Flag) (any, error) {
	switch flag.Value.Type() {
	case "bool":
		return set.GetBool(flag.Name)
	case "duration":
		return set.GetDuration(flag.Name)
	case "int":
		return set.GetInt(flag.Name)
	default:
		return flag.Value.String(), nil
	}
}

// loadEnvFile loads environment variables from a file with security validation
func loadEnvFile(cmd *cobra.Command) (string, error) {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return "", fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if envFile == "" {
		return "", nil
	}
	pwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	if !filepath.IsAbs(envFile) {
		envFile = filepath.Join(pwd, envFile)
	}
	absPath, err := filepath.Abs(filepath.Clean(envFile))
	if err != nil {
		return "", fmt.Errorf("failed to resolve env file path: %w", err)
	}
	if !isPathWithinDirectory(absPath, pwd) {
		return "", fmt.Errorf("env file path '%s' is outside the working directory", envFile)
	}
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return absPath, nil
		}
		return "", fmt.Errorf("failed to stat env file: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return "", fmt.Errorf("env file path '%s' is not a regular file", envFile)
	}
	if err := godotenv.Load(absPath); err != nil {
		return "", fmt.Errorf("failed to load env file %s: %w", absPath, err)
	}
	return absPath, nil
}

// isPathWithinDirectory checks if a given path is within the specified directory
func isPathWithinDirectory(path, dir string) bool {
	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return false
	}
	if !strings.HasSuffix(absDir, string(filepath.Separator)) {
		absDir += string(filepath.Separator)
	}
	return strings.HasPrefix(absPath, absDir) || absPath == strings.TrimSuffix(absDir, string(filepath.Separator))
}
