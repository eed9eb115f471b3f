// Package render draws tasks and contexts as terminal tables.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/aretw0/tasks/pkg/core"
)

const (
	// DefaultLineLength is used when the output is not a terminal.
	DefaultLineLength = 50
	// layoutWidth is the room taken by the id and check columns and the borders.
	layoutWidth   = 15
	minLineLength = 10

	EmptyTasksMessage    = "No tasks, are you lazy or too efficient?"
	EmptyContextsMessage = "Add your first context using: tasks use <name>"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	doneStyle   = cellStyle.Foreground(lipgloss.Color("245"))
	activeStyle = cellStyle.Foreground(lipgloss.Color("46"))
)

// Options tunes table output.
type Options struct {
	// LineLength is the wrap width of task content.
	LineLength int
	// ByPosition numbers tasks by display position instead of their stored id.
	ByPosition bool
}

// LineLength returns configured when positive, else the terminal width of fd
// minus the table layout (at least 10), else DefaultLineLength.
func LineLength(configured int, fd int) int {
	if configured > 0 {
		return configured
	}
	if !term.IsTerminal(fd) {
		return DefaultLineLength
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return DefaultLineLength
	}
	if width < layoutWidth+minLineLength {
		return minLineLength
	}
	return width - layoutWidth
}

// Wrap breaks line into chunks of at most max runes, cutting at the last space of
// each chunk when there is one.
func Wrap(line string, max int) string {
	runes := []rune(line)
	if max <= 0 || len(runes) < max {
		return line
	}

	var b strings.Builder
	pos := 0
	for {
		end := pos + max
		if end >= len(runes) {
			b.WriteString(string(runes[pos:]))
			break
		}

		chunk := runes[pos:end]
		cut, skip := len(chunk), 0
		for i := len(chunk) - 1; i >= 0; i-- {
			if chunk[i] == ' ' {
				cut, skip = i, 1
				break
			}
		}
		b.WriteString(string(chunk[:cut]))
		b.WriteByte('\n')
		pos += cut + skip
	}
	return b.String()
}

// Tasks writes one table for a context: a header with its name and one row per task.
func Tasks(w io.Writer, c core.Context, opts Options) error {
	rows := make([][]string, 0, len(c.Tasks))
	done := make(map[int]bool, len(c.Tasks))
	for i, task := range c.Tasks {
		id := task.ID
		if opts.ByPosition {
			id = i + 1
		}
		check := "[ ]"
		if task.Done {
			check = "[X]"
			done[i] = true
		}
		rows = append(rows, []string{strconv.Itoa(id), check, Wrap(task.Content, opts.LineLength)})
	}
	if len(rows) == 0 {
		rows = append(rows, []string{"", "", Wrap(EmptyTasksMessage, opts.LineLength)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("", "", Wrap(c.Name, opts.LineLength)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case done[row]:
				return doneStyle
			default:
				return cellStyle
			}
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// Collection writes one table per context.
func Collection(w io.Writer, c core.Collection, opts Options) error {
	for _, ctx := range c {
		if err := Tasks(w, ctx, opts); err != nil {
			return err
		}
	}
	return nil
}

// Contexts writes the context list: position, name, task count and active marker.
func Contexts(w io.Writer, summaries []core.ContextSummary) error {
	rows := make([][]string, 0, len(summaries))
	active := -1
	for i, s := range summaries {
		marker := ""
		if s.Active {
			marker = "active"
			active = i
		}
		rows = append(rows, []string{strconv.Itoa(s.Position), s.Name, fmt.Sprintf("%d tasks", s.TaskCount), marker})
	}
	if len(rows) == 0 {
		rows = append(rows, []string{EmptyContextsMessage})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == active {
				return activeStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// FilterContexts keeps the contexts whose name matches the glob pattern.
// An empty pattern keeps everything.
func FilterContexts(c core.Collection, pattern string) (core.Collection, error) {
	if pattern == "" {
		return c, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	out := make(core.Collection, 0, len(c))
	for _, ctx := range c {
		if ok, _ := doublestar.Match(pattern, ctx.Name); ok {
			out = append(out, ctx)
		}
	}
	return out, nil
}
