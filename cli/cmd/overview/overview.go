// Package overview implements `classhelper overview`, the record counts shown
// on the dashboard home page.
package overview

import (
	"context"
	"fmt"
	"strings"

	"github.com/MLinh204/Class-Helper-Admin/cli/api"
	"github.com/MLinh204/Class-Helper-Admin/cli/cmd"
	"github.com/MLinh204/Class-Helper-Admin/cli/helpers"
	"github.com/MLinh204/Class-Helper-Admin/cli/tui/styles"
	"github.com/MLinh204/Class-Helper-Admin/pkg/logger"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Count is the size of one family.
type Count struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Total int    `json:"total"`
}

type counter struct {
	desc  api.Descriptor
	count func(ctx context.Context, client *api.Client) (int, error)
}

func countOf[T api.Record](desc api.Descriptor) counter {
	return counter{desc: desc, count: func(ctx context.Context, client *api.Client) (int, error) {
		items, err := api.NewResource[T](client, desc).FetchAll(ctx)
		return len(items), err
	}}
}

// counters lists the cards in display order.
var counters = []counter{
	countOf[api.User](api.Users),
	countOf[api.Student](api.Students),
	countOf[api.Teacher](api.Teachers),
	countOf[api.AttendanceList](api.AttendanceLists),
	countOf[api.VocabList](api.VocabLists),
}

func Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show how many records each family holds",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{RequireAuth: true}, cmd.ModeHandlers{
				JSON: runJSON,
				TUI:  runTUI,
			}, args)
		},
	}
}

// Collect fetches every count concurrently. The first failure cancels the
// remaining requests.
func Collect(ctx context.Context, client *api.Client) ([]Count, error) {
	counts := make([]Count, len(counters))
	group, gctx := errgroup.WithContext(ctx)
	for i, c := range counters {
		group.Go(func() error {
			total, err := c.count(gctx, client)
			if err != nil {
				return fmt.Errorf("failed to count %s: %w", c.desc.Name, err)
			}
			counts[i] = Count{Name: c.desc.Name, Title: c.desc.Title, Total: total}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

func runJSON(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	counts, err := Collect(ctx, executor.Client())
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Debug("collected overview", "families", len(counts))
	data := make(map[string]int, len(counts))
	for _, c := range counts {
		data[c.Name] = c.Total
	}
	return helpers.NewOutputWriter(cobraCmd.OutOrStdout(), helpers.OutputFormatJSON).
		WriteData(map[string]any{"data": data})
}

func runTUI(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	counts, err := Collect(ctx, executor.Client())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cobraCmd.OutOrStdout(), Render(counts))
	return err
}

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.Primary).
			Padding(0, 2).
			Width(18)
	totalStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Highlight)
)

// Render lays the counts out as a row of cards.
func Render(counts []Count) string {
	cards := make([]string, len(counts))
	for i, c := range counts {
		cards[i] = cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.HelpStyle.Render(strings.ToUpper(c.Title)),
			totalStyle.Render(humanize.Comma(int64(c.Total))),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.RenderTitle("Class Helper overview"),
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
	)
}
