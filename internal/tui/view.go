package tui

import (
	"fmt"
	"strings"

	"github.com/trailmark/trailmark/internal/stats"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateLessons:
		return m.viewLessons()
	default:
		return m.viewRoadmaps()
	}
}

func (m Model) viewRoadmaps() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("trailmark — roadmaps"))
	b.WriteString("\n\n")

	doc := m.store.Document()
	for i, def := range m.catalog.Roadmaps() {
		completed := stats.CompletedSubtopics(doc, def.ID, "", "")
		total := stats.TotalSubtopics(def, "", "")
		percent := stats.CompletionPercent(completed, total)

		line := fmt.Sprintf("%-30s %3d%%  (%d/%d lessons)", def.Title, percent, completed, total)
		if i == m.roadmapCursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) viewLessons() string {
	var b strings.Builder

	doc := m.store.Document()
	completed := stats.CompletedSubtopics(doc, m.roadmap.ID, "", "")
	total := stats.TotalSubtopics(m.roadmap, "", "")
	percent := stats.CompletionPercent(completed, total)

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s — %d%% (%d/%d)",
		m.roadmap.Title, percent, completed, total)))
	b.WriteString("\n\n")

	visible := m.visibleLines()
	end := m.offset + visible
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		indent := strings.Repeat("  ", r.indent)

		if r.header != "" {
			b.WriteString(indent + headerStyle.Render(r.header) + "\n")
			continue
		}

		marker := "[ ]"
		line := r.name
		switch {
		case r.cheat:
			marker = "[~]"
			line = cheatSheetStyle.Render(r.name + " (reference)")
		default:
			if sp, ok := doc.Subtopic(m.roadmap.ID, r.phase, r.topic, r.subtopic); ok && sp.Completed {
				marker = completedStyle.Render("[x]")
				line = completedStyle.Render(r.name)
			}
			if sp, ok := doc.Subtopic(m.roadmap.ID, r.phase, r.topic, r.subtopic); ok && sp.QuizScore != nil {
				line += dimStyle.Render(fmt.Sprintf("  quiz %d%%", *sp.QuizScore))
			}
		}

		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(indent + prefix + marker + " " + line + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + dimStyle.Render("error: "+m.err.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
