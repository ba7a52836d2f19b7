package components

import (
	"strings"

	"github.com/MLinh204/Class-Helper-Admin/cli/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	breadcrumbStyle       = lipgloss.NewStyle().Foreground(styles.Muted)
	breadcrumbActiveStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	breadcrumbSeparator   = breadcrumbStyle.Render(" › ")
)

// Breadcrumb shows where a screen sits: app, family, then the parent list of
// nested families. The last item is highlighted.
type Breadcrumb struct {
	Width int
	Items []string
}

func NewBreadcrumb(items ...string) Breadcrumb {
	var kept []string
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			kept = append(kept, item)
		}
	}
	return Breadcrumb{Items: kept}
}

func (b *Breadcrumb) SetWidth(width int) {
	b.Width = width
}

// View renders the trail. Leading items are dropped when it is wider than
// Width.
func (b Breadcrumb) View() string {
	items := b.Items
	for {
		out := b.render(items)
		if len(items) < len(b.Items) {
			out = breadcrumbStyle.Render("…") + breadcrumbSeparator + out
		}
		if len(items) <= 1 || b.Width <= 0 || lipgloss.Width(out) <= b.Width {
			return out
		}
		items = items[1:]
	}
}

func (b Breadcrumb) render(items []string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		if i == len(items)-1 {
			parts[i] = breadcrumbActiveStyle.Render(item)
			continue
		}
		parts[i] = breadcrumbStyle.Render(item)
	}
	return strings.Join(parts, breadcrumbSeparator)
}
