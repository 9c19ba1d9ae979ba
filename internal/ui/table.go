package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/inels/internal/resources"
)

// ResourceTable renders the resources of one room
type ResourceTable struct {
	Room      string
	Resources []*resources.Resource
	Width     int
}

// NewResourceTable creates a table for a room
func NewResourceTable(room string, list []*resources.Resource) *ResourceTable {
	return &ResourceTable{
		Room:      room,
		Resources: list,
		Width:     GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (t *ResourceTable) SetWidth(width int) *ResourceTable {
	t.Width = width
	return t
}

// Row is the plain text content of one table row
type Row struct {
	Title string
	Type  string
	ID    string
	Value string
	Flags string
}

// Rows returns the unstyled table content
func (t *ResourceTable) Rows() []Row {
	rows := make([]Row, 0, len(t.Resources))
	for _, r := range t.Resources {
		row := Row{
			Title: r.Title(),
			Type:  r.Type(),
			ID:    r.ID(),
			Value: "-",
		}
		if v, ok := r.Value(); ok {
			row.Value = v.String()
		}
		if r.ReadOnly() {
			row.Flags = ReadOnlyMarker
		}
		rows = append(rows, row)
	}
	return rows
}

// Render returns the styled table as a string
func (t *ResourceTable) Render() string {
	width := clampWidth(t.Width)
	rows := t.Rows()

	// Column widths: title, type, id, value, flags
	widths := []int{len("NAME"), len("TYPE"), len("ID"), len("VALUE"), len("FLAGS")}
	for _, r := range rows {
		for i, cell := range []string{r.Title, r.Type, r.ID, r.Value, r.Flags} {
			if l := lipgloss.Width(cell); l > widths[i] {
				widths[i] = l
			}
		}
	}

	cell := func(style lipgloss.Style, text string, col int) string {
		return style.Width(widths[col] + 2).Render(text)
	}

	var lines []string
	lines = append(lines, TitleStyle.Render(strings.ToUpper(t.Room)))
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
		cell(ColumnHeaderStyle, "NAME", 0),
		cell(ColumnHeaderStyle, "TYPE", 1),
		cell(ColumnHeaderStyle, "ID", 2),
		cell(ColumnHeaderStyle, "VALUE", 3),
		cell(ColumnHeaderStyle, "FLAGS", 4),
	))

	if len(rows) == 0 {
		lines = append(lines, MutedCellStyle.Render("no devices"))
	}

	for _, r := range rows {
		valueStyle := ValueStyle
		if r.Value == "-" {
			valueStyle = MutedCellStyle
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			cell(CellStyle, r.Title, 0),
			cell(CellStyle, r.Type, 1),
			cell(MutedCellStyle, r.ID, 2),
			cell(valueStyle, r.Value, 3),
			cell(ReadOnlyStyle, r.Flags, 4),
		))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		MaxWidth(width).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (t *ResourceTable) String() string {
	return t.Render()
}
