package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Aman-CERP/picky/internal/ui"
)

// frontierModel steps through a query's allocation frontier one row at a
// time, in the evaluation (score descending) order the orchestrator
// produced it in.
type frontierModel struct {
	query     string
	index     string
	entries   []frontierEntry
	truncated bool
	cursor    int
	styles    ui.Styles
	quitting  bool
}

func newFrontierModel(query, index string, entries []frontierEntry, truncated bool) *frontierModel {
	return &frontierModel{
		query:     query,
		index:     index,
		entries:   entries,
		truncated: truncated,
		styles:    ui.DefaultStyles(),
	}
}

func (m *frontierModel) Init() tea.Cmd {
	return nil
}

func (m *frontierModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.entries) - 1
	}
	return m, nil
}

func (m *frontierModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	header := fmt.Sprintf("index=%s query=%q allocations=%d", m.index, m.query, len(m.entries))
	if m.truncated {
		header += " (truncated)"
	}
	b.WriteString(m.styles.Header.Render(header))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(m.styles.Dim.Render("no allocations matched this query\n"))
		return b.String()
	}

	b.WriteString(m.styles.Label.Render(fmt.Sprintf("%-4s %-10s %-8s %-8s %s", "#", "score", "ids", "running", "categories")))
	b.WriteString("\n")

	for i, e := range m.entries {
		row := fmt.Sprintf("%-4d %-10.4f %-8d %-8d %s",
			e.index, e.score, e.idsCount, e.cumulativeIDs, strings.Join(e.categories, ","))

		style := lipgloss.NewStyle()
		if i == m.cursor {
			style = m.styles.Active
		}
		b.WriteString(style.Render(row))
		if e.terminatesHere {
			b.WriteString(m.styles.Warning.Render("  <- termination fires here"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Dim.Render("j/k or arrows to move, g/G for start/end, q to quit"))
	return b.String()
}
