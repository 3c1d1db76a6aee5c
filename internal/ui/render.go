package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mtorres/slate/internal/model"
)

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	switch a.mode {
	case modeForm:
		return a.renderForm()
	case modeMetrics:
		return a.renderMetrics()
	}

	var b strings.Builder
	b.WriteString(a.renderColumns())
	b.WriteString("\n")
	if a.mode == modeSearch {
		b.WriteString("/" + a.searchInput.View() + "\n")
	}
	if a.err != nil {
		b.WriteString(errorStyle.Render("Error: "+a.err.Error()+" (press any key to dismiss)") + "\n")
	}
	b.WriteString(a.renderStatusBar())
	return b.String()
}

func (a App) renderColumns() string {
	colWidth := a.width/len(a.stages) - 4
	if colWidth < 12 {
		colWidth = 12
	}
	colHeight := a.height - 4

	columns := make([]string, 0, len(a.stages))
	for ci, stage := range a.stages {
		items := a.view.Lists[stage]

		var lines []string
		header := headerStyle.Render(stage.Label()) + " " +
			countStyle.Render(fmt.Sprintf("(%d)", a.view.Counts[stage]))
		lines = append(lines, header, "")

		for ri, item := range items {
			lines = append(lines, a.renderCard(item, colWidth, ci == a.col && ri == a.row))
		}

		col := lipgloss.NewStyle().Width(colWidth).Height(colHeight).
			Render(strings.Join(lines, "\n"))
		if ci == a.col {
			columns = append(columns, focusedColumnStyle.Render(col))
		} else {
			columns = append(columns, columnStyle.Render(col))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func (a App) renderCard(item model.ContentItem, width int, selected bool) string {
	title := truncate(item.Title, width-2)
	badge := platformBadges[string(item.Platform)]

	var line string
	if selected {
		line = selectedCardStyle.Render(title)
	} else {
		line = cardStyle.Render(title)
	}

	meta := badge
	if !item.DueDate.IsZero() {
		meta += " " + dueStyle.Render(item.DueDate.Format("Jan 02"))
	}
	return line + "\n" + countStyle.Render(truncate(meta, width-2))
}

func (a App) renderStatusBar() string {
	parts := []string{
		fmt.Sprintf("%d items", a.totalCount()),
		"sort:" + a.sortMode.String(),
	}
	if a.query != "" {
		parts = append(parts, fmt.Sprintf("filter:%q", a.query))
	}
	if a.loading {
		parts = append(parts, "working...")
	}
	if a.status != "" {
		parts = append(parts, a.status)
	}
	parts = append(parts, "h/l move · 1-5 jump · x delete · n new · / search · q quit")
	return statusStyle.Render(strings.Join(parts, "  |  "))
}

func (a App) renderForm() string {
	if a.form == nil {
		return ""
	}
	var b strings.Builder
	if a.form.editing {
		b.WriteString(headerStyle.Render("Edit item") + "\n\n")
	} else {
		b.WriteString(headerStyle.Render("New item") + "\n\n")
	}
	for i, in := range a.form.inputs {
		cursor := "  "
		if i == a.form.focus {
			cursor = "> "
		}
		b.WriteString(formLabelStyle.Render(cursor) + in.View() + "\n")
	}
	if a.form.err != nil {
		b.WriteString("\n" + errorStyle.Render(a.form.err.Error()) + "\n")
	}
	b.WriteString("\n" + statusStyle.Render("tab next field · enter save · esc cancel"))
	return b.String()
}

func (a App) renderMetrics() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Engagement") + "\n\n")
	if len(a.metricsStats) == 0 {
		b.WriteString(statusStyle.Render("no platforms configured") + "\n")
	}
	for _, s := range a.metricsStats {
		b.WriteString(fmt.Sprintf("%-14s @%-20s %8d followers  %8d likes  %4d posts\n",
			s.Platform, s.Handle, s.Followers, s.TotalLikes, len(s.Posts)))
	}
	b.WriteString("\n" + statusStyle.Render("any key to return"))
	return b.String()
}

func (a App) totalCount() int {
	n := 0
	for _, c := range a.view.Counts {
		n += c
	}
	return n
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
