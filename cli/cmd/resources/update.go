package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/MLinh204/Class-Helper-Admin/cli/api"
	"github.com/MLinh204/Class-Helper-Admin/cli/cmd"
	"github.com/MLinh204/Class-Helper-Admin/cli/helpers"
	"github.com/spf13/cobra"
)

func newUpdateCmd[T api.Record](desc api.Descriptor) *cobra.Command {
	c := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update fields of a record in %s", strings.ToLower(desc.Title)),
		Example: fmt.Sprintf(`  classhelper %[1]s update 7 --set title="Week 3"
  classhelper %[1]s update 7 --file patch.json`, desc.Name),
		Args: cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			handler := updateHandler[T](desc)
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireAuth: true}, cmd.ModeHandlers{
				JSON: handler,
				TUI:  handler,
			}, args)
		},
	}
	c.Flags().StringArray("set", nil, "Field assignment key=value (repeatable)")
	c.Flags().String("file", "", "JSON object with the fields to update, - for stdin")
	return c
}

func updateHandler[T api.Record](desc api.Descriptor) cmd.HandlerFunc {
	return func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
		id, err := helpers.ParseID(args[0])
		if err != nil {
			return err
		}
		fields, err := collectFields(ctx, cobraCmd)
		if err != nil {
			return err
		}
		res := api.NewResource[T](executor.Client(), desc)
		if err := res.Update(ctx, id, fields); err != nil {
			return err
		}
		keys := slices.Sorted(maps.Keys(fields))
		return writeResult(cobraCmd, executor, map[string]any{
			"entity":  desc.Name,
			"id":      id,
			"updated": keys,
		}, fmt.Sprintf("Updated %s #%d (%s)", strings.ToLower(desc.Title), id, strings.Join(keys, ", ")))
	}
}

// collectFields merges --file, then --set on top of it.
func collectFields(ctx context.Context, cobraCmd *cobra.Command) (map[string]any, error) {
	fields := make(map[string]any)
	file, _ := cobraCmd.Flags().GetString("file")
	if file != "" {
		data, err := helpers.ReadInput(ctx, file)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, helpers.NewCliError("INVALID_INPUT", "update file must hold a JSON object", err.Error())
		}
	}
	sets, _ := cobraCmd.Flags().GetStringArray("set")
	for _, assignment := range sets {
		key, value, err := parseAssignment(assignment)
		if err != nil {
			return nil, err
		}
		fields[key] = value
	}
	if len(fields) == 0 {
		return nil, helpers.NewCliError("MISSING_FLAG", "nothing to update, pass --set key=value or --file")
	}
	return fields, nil
}

// parseAssignment splits key=value. Integers, decimals and booleans are sent
// as JSON numbers and booleans; anything else is a string. Quote a value to
// force a string.
func parseAssignment(raw string) (string, any, error) {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, helpers.NewCliError("INVALID_ASSIGNMENT", "expected key=value", fmt.Sprintf("provided: %s", raw))
	}
	if unquoted, err := strconv.Unquote(value); err == nil {
		return key, unquoted, nil
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return key, n, nil
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return key, json.Number(strconv.FormatFloat(f, 'f', -1, 64)), nil
	}
	if value == "true" || value == "false" {
		return key, value == "true", nil
	}
	return key, value, nil
}
