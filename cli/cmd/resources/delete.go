package resources

import (
	"context"
	"fmt"
	"strings"

	"github.com/MLinh204/Class-Helper-Admin/cli/api"
	"github.com/MLinh204/Class-Helper-Admin/cli/cmd"
	"github.com/MLinh204/Class-Helper-Admin/cli/helpers"
	"github.com/MLinh204/Class-Helper-Admin/cli/tui/models"
	"github.com/MLinh204/Class-Helper-Admin/pkg/logger"
	"github.com/spf13/cobra"
)

func newDeleteCmd[T api.Record](desc api.Descriptor) *cobra.Command {
	c := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a record from %s", strings.ToLower(desc.Title)),
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireAuth: true}, cmd.ModeHandlers{
				JSON: deleteHandler[T](desc, false),
				TUI:  deleteHandler[T](desc, true),
			}, args)
		},
	}
	c.Flags().Bool("force", false, "Delete without confirmation")
	return c
}

func ensureForceDeletion(force bool) error {
	if force {
		return nil
	}
	return helpers.NewCliError("CONFIRMATION_REQUIRED", "deletion requires --force flag in JSON mode")
}

// removeTracker remembers whether the DELETE itself went through, which the
// controller state alone cannot tell once the follow-up reload fails.
type removeTracker[T api.Record] struct {
	collection.Source[int64, T]
	removed bool
}

func (s *removeTracker[T]) Remove(ctx context.Context, id int64) error {
	err := s.Source.Remove(ctx, id)
	s.removed = err == nil
	return err
}

// deleteHandler goes through the controller's confirmation flow so the id is
// checked against the loaded collection before anything is removed.
func deleteHandler[T api.Record](desc api.Descriptor, interactive bool) cmd.HandlerFunc {
	return func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
		log := logger.FromContext(ctx)
		id, err := helpers.ParseID(args[0])
		if err != nil {
			return err
		}
		force, err := cobraCmd.Flags().GetBool("force")
		if err != nil {
			return fmt.Errorf("failed to get force flag: %w", err)
		}
		if !interactive {
			if err := ensureForceDeletion(force); err != nil {
				return err
			}
		}
		res, _, err := resourceFor[T](cobraCmd, executor, desc)
		if err != nil {
			return err
		}
		src := &removeTracker[T]{Source: res}
		ctrl := collection.New(desc.Name, collection.Source[int64, T](src), api.KeyOf[T])
		if st := ctrl.Load(ctx); st.Failed() {
			return requestFailed(desc, st)
		}
		if !ctrl.RequestDelete(id) {
			return helpers.NewNotFoundError(desc.Title, id)
		}
		if interactive && !force {
			ok, err := models.Confirm(ctx,
				fmt.Sprintf("Delete %s #%d?", strings.ToLower(desc.Title), id),
				"This cannot be undone.")
			if err != nil {
				return err
			}
			if !ok {
				ctrl.CancelDelete()
				return models.ErrCanceled
			}
		}
		log.Debug("deleting record", "collection", desc.Name, "id", id)
		st := ctrl.ConfirmDelete(ctx)
		if st.Failed() && !src.removed {
			return requestFailed(desc, st)
		}
		if st.Failed() {
			// the row is gone; only the reload afterwards failed
			log.Warn("record deleted but refresh failed", "collection", desc.Name, "id", id, "error", st.ErrorMessage)
			return writeResult(cobraCmd, executor, map[string]any{
				"entity":    desc.Name,
				"id":        id,
				"deleted":   true,
				"refreshed": false,
				"warning":   st.ErrorMessage,
			}, fmt.Sprintf("Deleted %s #%d (refresh failed: %s)", strings.ToLower(desc.Title), id, st.ErrorMessage))
		}
		return writeResult(cobraCmd, executor, map[string]any{
			"entity":    desc.Name,
			"id":        id,
			"deleted":   true,
			"remaining": len(st.Items),
		}, fmt.Sprintf("Deleted %s #%d", strings.ToLower(desc.Title), id))
	}
}
