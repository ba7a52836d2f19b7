// Package resources builds the command group of every entity family from its
// api.Descriptor: list, delete and update for all, plus family specific
// creates and actions.
package resources

import (
	"fmt"
	"io"

	"github.com/MLinh204/Class-Helper-Admin/cli/api"
	"github.com/MLinh204/Class-Helper-Admin/cli/cmd"
	"github.com/MLinh204/Class-Helper-Admin/cli/helpers"
	"github.com/MLinh204/Class-Helper-Admin/cli/tui/styles"
	"github.com/MLinh204/Class-Helper-Admin/internal/collection"
	"github.com/spf13/cobra"
)

// Commands returns one group per family, in help order.
func Commands() []*cobra.Command {
	return []*cobra.Command{
		Group[api.User](api.Users, newUserCreateCmd()),
		Group[api.Student](api.Students,
			newStudentCreateCmd(),
			newCounterCmd("add-point", "Add points to a student", "/student/updatePoint", "point"),
			newCounterCmd("set-heart", "Set a student's hearts", "/student/updateHeart", "heart"),
			newCounterCmd("set-level", "Set a student's level", "/student/updateLevel", "level"),
		),
		Group[api.Teacher](api.Teachers),
		Group[api.AttendanceList](api.AttendanceLists),
		Group[api.AttendanceRecord](api.AttendanceRecords, newMarkAttendanceCmd()),
		Group[api.RegistrationList](api.Registrations),
		Group[api.SalaryList](api.SalaryLists, newSalaryListCreateCmd()),
		Group[api.SalaryRecord](api.SalaryRecords, newPaymentStatusCmd()),
		Group[api.VocabList](api.VocabLists, newVocabListCreateCmd()),
		Group[api.Vocab](api.Vocabs, newVocabCreateCmd()),
		RolesCmd(),
	}
}

// Group returns `classhelper <family>` with the shared subcommands and extra.
func Group[T api.Record](desc api.Descriptor, extra ...*cobra.Command) *cobra.Command {
	group := &cobra.Command{
		Use:   desc.Name,
		Short: fmt.Sprintf("Manage %s", desc.Title),
	}
	switch {
	case desc.Scoped:
		group.PersistentFlags().Int64("list", 0, "ID of the parent list")
	case desc.ListPath != "":
		group.PersistentFlags().Int64("list", 0, "Only records of this parent list (all records when omitted)")
	}
	group.AddCommand(newListCmd[T](desc), newDeleteCmd[T](desc), newUpdateCmd[T](desc))
	group.AddCommand(extra...)
	return group
}

// resourceFor binds desc to the executor's client, scoped to --list for
// nested families. Families with an optional per-list endpoint switch to it
// when --list is given. Callers use the resource's Descriptor from then on.
func resourceFor[T api.Record](
	cobraCmd *cobra.Command,
	executor *cmd.CommandExecutor,
	desc api.Descriptor,
) (*api.Resource[T], string, error) {
	if !desc.Scoped && desc.ListPath == "" {
		return api.NewResource[T](executor.Client(), desc), "", nil
	}
	listID, err := cobraCmd.Flags().GetInt64("list")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get list flag: %w", err)
	}
	scope := fmt.Sprintf("list %d", listID)
	switch {
	case listID > 0 && !desc.Scoped:
		return api.NewResource[T](executor.Client(), desc.ForList()).InList(listID), scope, nil
	case listID > 0:
		return api.NewResource[T](executor.Client(), desc).InList(listID), scope, nil
	case desc.Scoped:
		return nil, "", helpers.NewCliError("MISSING_FLAG", fmt.Sprintf("%s requires --list <id>", desc.Name))
	default:
		return api.NewResource[T](executor.Client(), desc), "", nil
	}
}

func newController[T api.Record](desc api.Descriptor, res *api.Resource[T]) *collection.Controller[int64, T] {
	return collection.New(desc.Name, collection.Source[int64, T](res), api.KeyOf[T])
}

// requestFailed turns a failed controller state into a command error.
func requestFailed[T any](desc api.Descriptor, st collection.State[int64, T]) error {
	return helpers.NewCliError("REQUEST_FAILED", fmt.Sprintf("%s request failed", desc.Title), st.ErrorMessage)
}

// writeResult prints data in JSON mode and message in TUI mode.
func writeResult(cobraCmd *cobra.Command, executor *cmd.CommandExecutor, data any, message string) error {
	out := cobraCmd.OutOrStdout()
	if executor.GetMode() == helpers.ModeJSON {
		return helpers.NewOutputWriter(out, helpers.OutputFormatJSON).WriteData(map[string]any{"data": data})
	}
	return printSuccess(out, message)
}

func printSuccess(w io.Writer, message string) error {
	_, err := fmt.Fprintln(w, styles.SuccessStyle.Render("✅ "+message))
	return err
}
