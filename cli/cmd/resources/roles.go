package resources

import (
	"context"

	"github.com/MLinh204/Class-Helper-Admin/cli/api"
	"github.com/MLinh204/Class-Helper-Admin/cli/cmd"
	"github.com/MLinh204/Class-Helper-Admin/cli/helpers"
	"github.com/spf13/cobra"
)

// RolesCmd is read-only: the API has no sort, search or delete for roles.
func RolesCmd() *cobra.Command {
	group := &cobra.Command{
		Use:   api.Roles.Name,
		Short: "Show user roles",
	}
	list := actionCmd(&cobra.Command{
		Use:   "list",
		Short: "List roles",
		Args:  cobra.NoArgs,
	}, listRoles)
	list.Flags().StringP("output", "o", "json", "Output format (json, yaml, table)")
	group.AddCommand(list)
	return group
}

func listRoles(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	raw, _ := cobraCmd.Flags().GetString("output")
	format, err := helpers.ParseOutputFormat(raw)
	if err != nil {
		return err
	}
	if executor.GetMode() == helpers.ModeTUI && !cobraCmd.Flags().Changed("output") {
		format = helpers.OutputFormatTable
	}
	roles, err := api.NewRoleDirectory(executor.Client()).All(ctx)
	if err != nil {
		return err
	}
	writer := helpers.NewOutputWriter(cobraCmd.OutOrStdout(), format).WithColor(helpers.ShouldUseColor(cobraCmd))
	if format == helpers.OutputFormatTable {
		table, err := newRecordTable(api.Roles, roles)
		if err != nil {
			return err
		}
		return writer.WriteData(table)
	}
	if roles == nil {
		roles = []api.Role{}
	}
	return writer.WriteData(map[string]any{"data": roles})
}
