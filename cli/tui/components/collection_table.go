package components

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/MLinh204/Class-Helper-Admin/cli/api"
	"github.com/MLinh204/Class-Helper-Admin/cli/tui/styles"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const maxSortKeys = 9

// CollectionKeyMap defines key bindings for a collection screen.
type CollectionKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Sort    key.Binding
	Search  key.Binding
	Reload  key.Binding
	Delete  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Copy    key.Binding
	Quit    key.Binding
}

// DefaultCollectionKeyMap returns the default key bindings. Sort and search
// are disabled for families whose API has no such endpoint.
func DefaultCollectionKeyMap(desc api.Descriptor) CollectionKeyMap {
	km := CollectionKeyMap{
		Up:      newBinding([]string{"up", "k"}, "up", "↑/k"),
		Down:    newBinding([]string{"down", "j"}, "down", "↓/j"),
		Sort:    newBinding([]string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}, "sort by column", "1-9"),
		Search:  newBinding([]string{"/"}, "search", "/"),
		Reload:  newBinding([]string{"r"}, "reload", "r"),
		Delete:  newBinding([]string{"d", "delete"}, "delete", "d"),
		Confirm: newBinding([]string{"y", "enter"}, "confirm", "y"),
		Cancel:  newBinding([]string{"n", "esc"}, "cancel", "n/esc"),
		Copy:    newBinding([]string{"c"}, "copy row", "c"),
		Quit:    newBinding([]string{"q", "ctrl+c"}, "quit", "q"),
	}
	km.Sort.SetEnabled(desc.CanSort() && len(desc.Sortable) > 0)
	km.Search.SetEnabled(desc.CanSearch())
	return km
}

func newBinding(keys []string, help, display string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(display, help),
	)
}

// ShortHelp implements help.KeyMap.
func (k CollectionKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Sort, k.Search, k.Reload, k.Delete, k.Copy, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k CollectionKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Sort, k.Search, k.Reload},
		{k.Delete, k.Confirm, k.Cancel},
		{k.Copy, k.Quit},
	}
}

// CollectionTable renders rows of one entity family. It holds no data of its
// own beyond the formatted cells; ordering is whatever the caller passes in.
type CollectionTable struct {
	table   table.Model
	desc    api.Descriptor
	raw     []json.RawMessage
	width   int
	height  int
	now     func() time.Time
	visible int
}

func NewCollectionTable(desc api.Descriptor, height int) CollectionTable {
	t := table.New(
		table.WithColumns(buildColumns(desc.Columns, nil)),
		table.WithFocused(true),
		table.WithHeight(max(3, height)),
	)
	t.SetStyles(defaultCollectionTableStyles())
	return CollectionTable{table: t, desc: desc, now: time.Now, visible: height}
}

func defaultCollectionTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Border).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.Highlight).
		Background(styles.Surface).
		Bold(true)
	return s
}

// buildColumns turns descriptor columns into table columns, marking the
// sorted one with an arrow.
func buildColumns(cols []api.Column, sort *SortIndicator) []table.Column {
	out := make([]table.Column, 0, len(cols))
	for _, c := range cols {
		title := c.Title
		if sort != nil && sort.Column == c.Key {
			title += " " + sort.Arrow()
		}
		out = append(out, table.Column{Title: title, Width: c.Width})
	}
	return out
}

// SortIndicator is the sort state shown in the header.
type SortIndicator struct {
	Column     string
	Descending bool
}

func (s SortIndicator) Arrow() string {
	if s.Descending {
		return "↓"
	}
	return "↑"
}

// SetSize fits the table into the terminal, scaling columns down when the
// terminal is narrower than their preferred widths.
func (ct *CollectionTable) SetSize(width, height int) {
	ct.width = width
	ct.height = height
	rows := max(3, height)
	if ct.visible > 0 {
		rows = min(rows, ct.visible)
	}
	ct.table.SetHeight(rows)
	preferred := 0
	for _, c := range ct.desc.Columns {
		preferred += c.Width + 2
	}
	cols := ct.table.Columns()
	if width <= 0 || preferred <= width {
		for i := range cols {
			cols[i].Width = ct.desc.Columns[i].Width
		}
	} else {
		for i := range cols {
			cols[i].Width = max(4, ct.desc.Columns[i].Width*width/preferred)
		}
	}
	ct.table.SetColumns(cols)
}

// SetSort updates the header arrow.
func (ct *CollectionTable) SetSort(sort *SortIndicator) {
	cols := buildColumns(ct.desc.Columns, sort)
	current := ct.table.Columns()
	for i := range cols {
		if i < len(current) {
			cols[i].Width = current[i].Width
		}
	}
	ct.table.SetColumns(cols)
}

// SetRows replaces the rows. Each item is marshaled once; cells are looked
// up by JSON key.
func (ct *CollectionTable) SetRows(items []any) error {
	ct.raw = ct.raw[:0]
	rows := make([]table.Row, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to render row: %w", err)
		}
		ct.raw = append(ct.raw, raw)
		rows = append(rows, ct.renderRow(raw))
	}
	ct.table.SetRows(rows)
	if cursor := ct.table.Cursor(); cursor >= len(rows) {
		ct.table.SetCursor(max(0, len(rows)-1))
	}
	return nil
}

func (ct *CollectionTable) renderRow(raw []byte) table.Row {
	row := make(table.Row, 0, len(ct.desc.Columns))
	for _, c := range ct.desc.Columns {
		cell := FormatCell(c, gjson.GetBytes(raw, c.Key), ct.now())
		row = append(row, runewidth.Truncate(cell, c.Width, "…"))
	}
	return row
}

// Selected returns the id and JSON of the row under the cursor.
func (ct *CollectionTable) Selected() (int64, []byte, bool) {
	i := ct.table.Cursor()
	if i < 0 || i >= len(ct.raw) {
		return 0, nil, false
	}
	return gjson.GetBytes(ct.raw[i], "id").Int(), ct.raw[i], true
}

// SortColumnFor maps a digit key to the nth sortable column.
func (ct *CollectionTable) SortColumnFor(msg tea.KeyMsg) (string, bool) {
	s := msg.String()
	if len(s) != 1 {
		return "", false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxSortKeys || n > len(ct.desc.Sortable) {
		return "", false
	}
	return ct.desc.Sortable[n-1], true
}

func (ct *CollectionTable) Len() int {
	return len(ct.raw)
}

// Update forwards navigation keys to the table.
func (ct *CollectionTable) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	ct.table, cmd = ct.table.Update(msg)
	return cmd
}

func (ct *CollectionTable) View() string {
	return ct.table.View()
}

// FormatCell renders one value for display.
func FormatCell(col api.Column, v gjson.Result, now time.Time) string {
	if !v.Exists() || v.Type == gjson.Null {
		return "-"
	}
	switch col.Kind {
	case api.KindTime:
		if ts, ok := api.Timestamp(v.String()).Time(); ok {
			return humanize.RelTime(ts, now, "ago", "from now")
		}
	case api.KindMoney:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			f, _ := d.Round(2).Float64()
			return humanize.CommafWithDigits(f, 2)
		}
	case api.KindFlag:
		if v.Bool() {
			return "yes"
		}
		return "no"
	}
	return v.String()
}
