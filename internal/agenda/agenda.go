// Package agenda renders a dashboard as styled terminal text.
package agenda

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dukerupert/tidyhouse/internal/schedule"
)

var (
	colorOverdue = lipgloss.Color("#EF4444")
	colorSoon    = lipgloss.Color("#F59E0B")
	colorOK      = lipgloss.Color("#10B981")
	colorMuted   = lipgloss.Color("#6B7280")
)

// StatusColor maps a task status to its display color.
func StatusColor(s schedule.Status) lipgloss.Color {
	switch s {
	case schedule.StatusOverdue:
		return colorOverdue
	case schedule.StatusDueSoon:
		return colorSoon
	case schedule.StatusOK:
		return colorOK
	default:
		return colorMuted
	}
}

func statusIcon(s schedule.Status) string {
	switch s {
	case schedule.StatusOverdue:
		return "⚠"
	case schedule.StatusDueSoon:
		return "⌛"
	default:
		return "✓"
	}
}

type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	name    lipgloss.Style
	muted   lipgloss.Style
	r       *lipgloss.Renderer
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Underline(true),
		heading: r.NewStyle().Bold(true).MarginTop(1),
		name:    r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(colorMuted),
		r:       r,
	}
}

// Render writes the dashboard to w. Colors are used only when w is a
// terminal that supports them.
func Render(w io.Writer, d schedule.Dashboard) error {
	st := newStyles(w)
	var b strings.Builder

	b.WriteString(st.title.Render("Agenda for " + d.Now.Format("Monday, January 2, 2006")))
	b.WriteString("\n")

	section := func(title string, items []schedule.Item, empty string) {
		b.WriteString(st.heading.Render(title))
		b.WriteString("\n")
		if len(items) == 0 {
			b.WriteString("  " + st.muted.Render(empty) + "\n")
			return
		}
		for _, it := range items {
			b.WriteString(line(st, it, d))
			b.WriteString("\n")
		}
	}

	section("Needing attention", d.NeedingAttention, "Nothing overdue or due soon.")
	section("Due today", d.Today, "Nothing due today.")
	section(fmt.Sprintf("This week (%s to %s)", d.ThisWeek.Start.Format("Jan 2"), d.ThisWeek.End.Format("Jan 2")),
		d.DueThisWeek, "Nothing else this week.")
	section(fmt.Sprintf("Next week (%s to %s)", d.NextWeek.Start.Format("Jan 2"), d.NextWeek.End.Format("Jan 2")),
		d.DueNextWeek, "Nothing scheduled next week.")

	if len(d.Problems) > 0 {
		b.WriteString(st.heading.Foreground(colorOverdue).Render("Skipped"))
		b.WriteString("\n")
		for _, p := range d.Problems {
			fmt.Fprintf(&b, "  %s %s\n", p.TaskID, st.muted.Render(p.Error))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func line(st styles, it schedule.Item, d schedule.Dashboard) string {
	status := st.r.NewStyle().Foreground(StatusColor(it.Status))
	return fmt.Sprintf("  %s %s %s  %s  %s",
		status.Render(statusIcon(it.Status)),
		st.name.Render(it.Task.Name),
		st.muted.Render("("+it.RoomName+")"),
		status.Render(schedule.DueLabel(it.Classification)),
		st.muted.Render(schedule.Describe(it.Task.Periodicity)+" · "+schedule.CompletionLabel(it.Task.LastCompleted, d.Now)),
	)
}
