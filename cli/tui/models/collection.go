package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/MLinh204/Class-Helper-Admin/cli/api"
	"github.com/MLinh204/Class-Helper-Admin/cli/helpers"
	"github.com/MLinh204/Class-Helper-Admin/cli/tui/components"
	"github.com/MLinh204/Class-Helper-Admin/cli/tui/styles"
	"github.com/MLinh204/Class-Helper-Admin/internal/collection"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tidwall/pretty"
)

type screenMode int

const (
	modeBrowse screenMode = iota
	modeSearch
	modeConfirm
)

type (
	// stateChangedMsg tells the screen to re-read the controller.
	stateChangedMsg struct{}
	copiedMsg       struct{ id int64 }
	copyFailedMsg   struct{ err error }
)

// CollectionModel is the list screen of one entity family. Every action goes
// through the controller; the screen only renders its snapshots.
type CollectionModel[T api.Record] struct {
	BaseModel
	ctrl    *collection.Controller[int64, T]
	desc    api.Descriptor
	crumbs  components.Breadcrumb
	initial func(ctx context.Context)
	table   components.CollectionTable
	keys    components.CollectionKeyMap
	help    help.Model
	spinner spinner.Model
	input   textinput.Model
	mode    screenMode
	state   collection.State[int64, T]
	notice  string
	copy    func(string) error
}

// CollectionOptions tune a CollectionModel.
type CollectionOptions struct {
	// Scope is the last breadcrumb item, e.g. "list 7".
	Scope string
	// PageSize is the number of visible rows.
	PageSize int
	// Initial replaces the first load, so flags like --sort carry into the
	// screen.
	Initial func(ctx context.Context)
}

func NewCollectionModel[T api.Record](
	ctx context.Context,
	ctrl *collection.Controller[int64, T],
	desc api.Descriptor,
	opts CollectionOptions,
) *CollectionModel[T] {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	in := textinput.New()
	in.Placeholder = "search " + strings.ToLower(desc.Title) + "..."
	in.Prompt = "/ "
	in.CharLimit = 100

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	initial := opts.Initial
	if initial == nil {
		initial = func(ctx context.Context) { ctrl.Load(ctx) }
	}
	return &CollectionModel[T]{
		BaseModel: NewBaseModel(ctx, helpers.ModeTUI),
		ctrl:      ctrl,
		desc:      desc,
		crumbs:    components.NewBreadcrumb("classhelper", desc.Title, opts.Scope),
		initial:   initial,
		table:     components.NewCollectionTable(desc, pageSize),
		keys:      components.DefaultCollectionKeyMap(desc),
		help:      help.New(),
		spinner:   s,
		input:     in,
		state:     ctrl.Snapshot(),
		copy:      clipboard.WriteAll,
	}
}

func (m *CollectionModel[T]) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run(m.initial))
}

// run executes a controller operation off the UI goroutine.
func (m *CollectionModel[T]) run(op func(ctx context.Context)) tea.Cmd {
	ctx := m.Context()
	return func() tea.Msg {
		op(ctx)
		return stateChangedMsg{}
	}
}

func (m *CollectionModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.SetSize(size.Width, size.Height)
		m.table.SetSize(size.Width, size.Height-8)
		m.help.Width = size.Width
		m.crumbs.SetWidth(size.Width)
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.sync()
		return m, cmd
	case stateChangedMsg:
		m.sync()
		return m, nil
	case copiedMsg:
		m.notice = fmt.Sprintf("Copied row %d to clipboard", msg.id)
		return m, nil
	case copyFailedMsg:
		m.notice = "Copy failed: " + msg.err.Error()
		return m, nil
	}
	return m, nil
}

// sync pulls the latest controller state into the view.
func (m *CollectionModel[T]) sync() {
	m.state = m.ctrl.Snapshot()
	items := make([]any, len(m.state.Items))
	for i := range m.state.Items {
		items[i] = m.state.Items[i]
	}
	if err := m.table.SetRows(items); err != nil {
		m.notice = err.Error()
	}
	var indicator *components.SortIndicator
	if m.state.Sort != nil {
		indicator = &components.SortIndicator{
			Column:     m.state.Sort.Column,
			Descending: m.state.Sort.Direction == collection.Descending,
		}
	}
	m.table.SetSort(indicator)
	if m.mode == modeConfirm && m.state.PendingDeleteID == nil {
		m.mode = modeBrowse
	}
}

func (m *CollectionModel[T]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.Quit()
		return m, tea.Quit
	}
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeConfirm:
		return m.handleConfirmKey(msg)
	default:
		return m.handleBrowseKey(msg)
	}
}

func (m *CollectionModel[T]) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Quit()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Sort):
		column, ok := m.table.SortColumnFor(msg)
		if !ok {
			return m, nil
		}
		return m, m.run(func(ctx context.Context) { m.ctrl.SortBy(ctx, column) })
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.input.SetValue(m.state.SearchQuery)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Reload):
		return m, m.run(func(ctx context.Context) { m.ctrl.Load(ctx) })
	case key.Matches(msg, m.keys.Delete):
		id, _, ok := m.table.Selected()
		if ok && m.ctrl.RequestDelete(id) {
			m.mode = modeConfirm
			m.state = m.ctrl.Snapshot()
		}
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelected()
	}
	return m, m.table.Update(msg)
}

func (m *CollectionModel[T]) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		query := m.input.Value()
		m.mode = modeBrowse
		m.input.Blur()
		return m, m.run(func(ctx context.Context) { m.ctrl.Search(ctx, query) })
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *CollectionModel[T]) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.mode = modeBrowse
		return m, m.run(func(ctx context.Context) { m.ctrl.ConfirmDelete(ctx) })
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.CancelDelete()
		m.mode = modeBrowse
		m.state = m.ctrl.Snapshot()
	}
	return m, nil
}

func (m *CollectionModel[T]) copySelected() tea.Cmd {
	id, raw, ok := m.table.Selected()
	if !ok {
		return nil
	}
	text := string(pretty.Pretty(raw))
	write := m.copy
	return func() tea.Msg {
		if err := write(text); err != nil {
			return copyFailedMsg{err: err}
		}
		return copiedMsg{id: id}
	}
}

// State returns the last rendered snapshot.
func (m *CollectionModel[T]) State() collection.State[int64, T] {
	return m.state
}

func (m *CollectionModel[T]) View() string {
	if m.IsQuitting() {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(m.crumbs.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	if m.state.Failed() {
		b.WriteString(styles.ErrorStyle.Render("✖ " + m.state.ErrorMessage))
		b.WriteString("\n")
	}
	b.WriteString(m.table.View())
	b.WriteString("\n")
	switch m.mode {
	case modeSearch:
		b.WriteString(m.input.View())
	case modeConfirm:
		b.WriteString(m.renderConfirm())
	default:
		if m.notice != "" {
			b.WriteString(styles.SuccessStyle.Render(m.notice))
			b.WriteString("\n")
		}
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m *CollectionModel[T]) renderStatus() string {
	var parts []string
	if m.state.Status == collection.StatusLoading {
		parts = append(parts, m.spinner.View()+" loading")
	}
	if m.state.Sort != nil {
		parts = append(parts, styles.InfoStyle.Render(
			fmt.Sprintf("Sort: %s %s", m.state.Sort.Column, m.state.Sort.Direction)))
	}
	if m.state.SearchQuery != "" {
		parts = append(parts, styles.WarningStyle.Render(fmt.Sprintf("Search: %q", m.state.SearchQuery)))
	}
	n := m.table.Len()
	parts = append(parts, styles.HelpStyle.Render(fmt.Sprintf("%d %s", n, helpers.Pluralize(n, "row", "rows"))))
	return strings.Join(parts, " • ")
}

func (m *CollectionModel[T]) renderConfirm() string {
	if m.state.PendingDeleteID == nil {
		return ""
	}
	prompt := fmt.Sprintf("Delete %s #%d? This cannot be undone.  [y] confirm  [n] cancel",
		strings.ToLower(m.desc.Title), *m.state.PendingDeleteID)
	return styles.DialogStyle.Render(prompt)
}
