// Package report renders pattern results as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/patterns"
)

// NoMatches is printed in place of a table without rows.
const NoMatches = "No matching patterns found"

// Present stands for the open end of an employment.
const Present = "present"

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorBorder = lipgloss.Color("#16858E")
	colorMuted  = lipgloss.Color("#2C4A54")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorAccent)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	numberStyle   = cellStyle.Align(lipgloss.Right)
)

// Writer prints pattern results to an output stream.
type Writer struct {
	out io.Writer
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Pattern prints the pattern heading, each of its tables and the elapsed time.
func (w *Writer) Pattern(p patterns.Pattern, tables []patterns.Table, took time.Duration) error {
	if _, err := fmt.Fprintf(w.out, "\n%s\n", titleStyle.Render(fmt.Sprintf("%s => %s", p.ID(), p.Description()))); err != nil {
		return err
	}
	for _, t := range tables {
		if _, err := fmt.Fprintln(w.out, Render(t)); err != nil {
			return err
		}
	}
	ms := float64(took) / float64(time.Millisecond)
	_, err := fmt.Fprintln(w.out, mutedStyle.Render(fmt.Sprintf("Took %.2fms", ms)))
	return err
}

// Render returns the table with its title, or the title and NoMatches when it has no rows.
func Render(t patterns.Table) string {
	title := subtitleStyle.Render(t.Title)
	if len(t.Rows) == 0 {
		return title + "\n\t" + NoMatches
	}

	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Name
	}
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for j := range t.Columns {
			if j < len(row) {
				cells[j] = Format(t.Columns[j].Kind, row[j])
			}
		}
		rows[i] = cells
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col < len(t.Columns) && t.Columns[col].Kind != patterns.Text {
				return numberStyle
			}
			return cellStyle
		})
	return title + "\n" + tbl.String()
}

// Format renders a single record value for a column of the given kind. Epoch values are
// shown as UTC dates, and -1 as Present.
func Format(kind patterns.Kind, v any) string {
	if v == nil {
		return ""
	}
	if kind == patterns.Epoch {
		if secs, ok := toInt64(v); ok {
			if secs == -1 {
				return Present
			}
			return time.Unix(secs, 0).UTC().Format(time.DateOnly)
		}
	}
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}
