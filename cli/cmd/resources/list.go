package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MLinh204/Class-Helper-Admin/cli/api"
	"github.com/MLinh204/Class-Helper-Admin/cli/cmd"
	"github.com/MLinh204/Class-Helper-Admin/cli/helpers"
	"github.com/MLinh204/Class-Helper-Admin/cli/tui/components"
	"github.com/MLinh204/Class-Helper-Admin/cli/tui/models"
	"github.com/MLinh204/Class-Helper-Admin/internal/collection"
	"github.com/MLinh204/Class-Helper-Admin/pkg/logger"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

func newListCmd[T api.Record](desc api.Descriptor) *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", strings.ToLower(desc.Title)),
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireAuth: true}, cmd.ModeHandlers{
				JSON: listJSON[T](desc),
				TUI:  listTUI[T](desc),
			}, args)
		},
	}
	if desc.CanSort() {
		c.Flags().String("sort", "", fmt.Sprintf("Sort by column (%s)", strings.Join(desc.Sortable, ", ")))
		c.Flags().Bool("desc", false, "Sort descending (with --sort)")
	}
	if desc.CanSearch() {
		c.Flags().String("search", "", "Search query")
	}
	c.Flags().StringP("output", "o", "json", "Output format in JSON mode (json, yaml, table)")
	return c
}

// listOptions is the framing requested on the command line.
type listOptions struct {
	sort       string
	descending bool
	search     string
}

// parseListOptions checks the flags against desc, the descriptor the request
// will actually use. Flags the family offers may still be unusable there,
// such as sorting a single salary list.
func parseListOptions(cobraCmd *cobra.Command, desc api.Descriptor) (listOptions, error) {
	var opts listOptions
	flags := cobraCmd.Flags()
	if flags.Lookup("sort") != nil {
		opts.sort, _ = flags.GetString("sort")
		opts.descending, _ = flags.GetBool("desc")
	}
	if flags.Lookup("search") != nil {
		opts.search, _ = flags.GetString("search")
	}
	if (opts.sort != "" || opts.descending) && !desc.CanSort() {
		return opts, helpers.NewCliError("INVALID_FLAG", "--sort cannot be combined with --list")
	}
	if opts.search != "" && !desc.CanSearch() {
		return opts, helpers.NewCliError("INVALID_FLAG", "--search cannot be combined with --list")
	}
	if err := helpers.ValidateEnum(opts.sort, desc.Sortable, "sort"); err != nil {
		return opts, err
	}
	if opts.descending && opts.sort == "" {
		return opts, helpers.NewCliError("INVALID_FLAG", "--desc requires --sort")
	}
	if opts.sort != "" && opts.search != "" {
		return opts, helpers.NewCliError("INVALID_FLAG", "--sort and --search cannot be combined",
			"the API sorts the full collection and ignores the query")
	}
	return opts, nil
}

// applyList runs the request the options ask for. A descending sort takes a
// second SortBy since the first one on a column is always ascending.
func applyList[T any](ctx context.Context, ctrl *collection.Controller[int64, T], opts listOptions) collection.State[int64, T] {
	switch {
	case opts.sort != "":
		st := ctrl.SortBy(ctx, opts.sort)
		if opts.descending && !st.Failed() {
			st = ctrl.SortBy(ctx, opts.sort)
		}
		return st
	case opts.search != "":
		return ctrl.Search(ctx, opts.search)
	default:
		return ctrl.Load(ctx)
	}
}

// listResult is the JSON shape of `list`.
type listResult[T any] struct {
	Data   []T                 `json:"data"`
	Sort   *collection.SortKey `json:"sort"`
	Search string              `json:"search"`
}

func listJSON[T api.Record](desc api.Descriptor) cmd.HandlerFunc {
	return func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
		res, _, err := resourceFor[T](cobraCmd, executor, desc)
		if err != nil {
			return err
		}
		desc := res.Descriptor()
		opts, err := parseListOptions(cobraCmd, desc)
		if err != nil {
			return err
		}
		raw, _ := cobraCmd.Flags().GetString("output")
		format, err := helpers.ParseOutputFormat(raw)
		if err != nil {
			return err
		}
		st := applyList(ctx, newController(desc, res), opts)
		if st.Failed() {
			return requestFailed(desc, st)
		}
		logger.FromContext(ctx).Debug("listed records", "collection", desc.Name, "count", len(st.Items))
		writer := helpers.NewOutputWriter(cobraCmd.OutOrStdout(), format).WithColor(helpers.ShouldUseColor(cobraCmd))
		if format == helpers.OutputFormatTable {
			table, err := newRecordTable(desc, st.Items)
			if err != nil {
				return err
			}
			return writer.WriteData(table)
		}
		items := st.Items
		if items == nil {
			items = []T{}
		}
		return writer.WriteData(listResult[T]{Data: items, Sort: st.Sort, Search: st.SearchQuery})
	}
}

func listTUI[T api.Record](desc api.Descriptor) cmd.HandlerFunc {
	return func(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
		res, scope, err := resourceFor[T](cobraCmd, executor, desc)
		if err != nil {
			return err
		}
		desc := res.Descriptor()
		opts, err := parseListOptions(cobraCmd, desc)
		if err != nil {
			return err
		}
		ctrl := newController(desc, res)
		m := models.NewCollectionModel(ctx, ctrl, desc, models.CollectionOptions{
			Scope:    scope,
			PageSize: executor.Config().CLI.PageSize,
			Initial:  func(ctx context.Context) { applyList(ctx, ctrl, opts) },
		})
		if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		return nil
	}
}

// recordTable lays records out with the family's columns for --output table.
type recordTable struct {
	columns []api.Column
	rows    [][]byte
	now     time.Time
}

func newRecordTable[T any](desc api.Descriptor, items []T) (recordTable, error) {
	t := recordTable{columns: desc.Columns, now: time.Now()}
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return t, fmt.Errorf("failed to encode row: %w", err)
		}
		t.rows = append(t.rows, raw)
	}
	return t, nil
}

func (t recordTable) Headers() []string {
	headers := make([]string, len(t.columns))
	for i, c := range t.columns {
		headers[i] = strings.ToUpper(c.Title)
	}
	return headers
}

func (t recordTable) Rows() [][]string {
	rows := make([][]string, 0, len(t.rows))
	for _, raw := range t.rows {
		row := make([]string, len(t.columns))
		for i, c := range t.columns {
			row[i] = components.FormatCell(c, gjson.GetBytes(raw, c.Key), t.now)
		}
		rows = append(rows, row)
	}
	return rows
}
