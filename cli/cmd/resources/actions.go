package resources

import (
	"context"
	"fmt"

	"github.com/MLinh204/Class-Helper-Admin/cli/api"
	"github.com/MLinh204/Class-Helper-Admin/cli/cmd"
	"github.com/MLinh204/Class-Helper-Admin/cli/helpers"
	"github.com/spf13/cobra"
)

// actionCmd wires a handler that behaves the same in both modes.
func actionCmd(c *cobra.Command, handler cmd.HandlerFunc) *cobra.Command {
	c.RunE = func(cobraCmd *cobra.Command, args []string) error {
		return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireAuth: true}, cmd.ModeHandlers{
			JSON: handler,
			TUI:  handler,
		}, args)
	}
	return c
}

// newCounterCmd sends one of the student progress counters.
func newCounterCmd(use, short, prefix, field string) *cobra.Command {
	return actionCmd(&cobra.Command{
		Use:   use + " <id> <n>",
		Short: short,
		Args:  cobra.ExactArgs(2),
	}, func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
		id, err := helpers.ParseID(args[0])
		if err != nil {
			return err
		}
		n, err := helpers.ParseNonNegative(args[1], field)
		if err != nil {
			return err
		}
		res := api.NewResource[api.Student](executor.Client(), api.Students)
		if err := res.Put(ctx, use, prefix, id, map[string]any{field: n}); err != nil {
			return err
		}
		return writeResult(cobraCmd, executor,
			map[string]any{"id": id, field: n},
			fmt.Sprintf("Student #%d %s: %d", id, field, n))
	})
}

func newMarkAttendanceCmd() *cobra.Command {
	c := actionCmd(&cobra.Command{
		Use:   "mark <id>",
		Short: "Mark a student present or absent",
		Args:  cobra.ExactArgs(1),
	}, func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
		id, err := helpers.ParseID(args[0])
		if err != nil {
			return err
		}
		attended, err := cobraCmd.Flags().GetBool("attended")
		if err != nil {
			return fmt.Errorf("failed to get attended flag: %w", err)
		}
		res := api.NewResource[api.AttendanceRecord](executor.Client(), api.AttendanceRecords)
		if err := res.Put(ctx, "mark", "/attendanceRecord/record", id, map[string]any{"attended": attended}); err != nil {
			return err
		}
		state := "absent"
		if attended {
			state = "present"
		}
		return writeResult(cobraCmd, executor,
			map[string]any{"id": id, "attended": attended},
			fmt.Sprintf("Attendance record #%d marked %s", id, state))
	})
	c.Flags().Bool("attended", true, "Whether the student attended")
	return c
}

func newPaymentStatusCmd() *cobra.Command {
	c := actionCmd(&cobra.Command{
		Use:   "set-status <id>",
		Short: "Set the payment status of a salary record",
		Args:  cobra.ExactArgs(1),
	}, func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
		id, err := helpers.ParseID(args[0])
		if err != nil {
			return err
		}
		status, _ := cobraCmd.Flags().GetString("status")
		body := api.PaymentStatus{Status: status}
		if err := api.Validate(body); err != nil {
			return err
		}
		res := api.NewResource[api.SalaryRecord](executor.Client(), api.SalaryRecords)
		if err := res.Put(ctx, "set-status", "/salaryRecord/paymentStatus/record", id, body); err != nil {
			return err
		}
		return writeResult(cobraCmd, executor,
			map[string]any{"id": id, "status": status},
			fmt.Sprintf("Salary record #%d is now %s", id, status))
	})
	c.Flags().String("status", "", "Payment status (paid, unpaid)")
	_ = c.MarkFlagRequired("status")
	return c
}
