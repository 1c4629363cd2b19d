package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		switch m.state {
		case StateRoadmaps:
			return m.updateRoadmaps(msg)
		case StateLessons:
			return m.updateLessons(msg)
		}
	}

	return m, nil
}

func (m Model) updateRoadmaps(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	roadmaps := m.catalog.Roadmaps()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.roadmapCursor > 0 {
			m.roadmapCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.roadmapCursor < len(roadmaps)-1 {
			m.roadmapCursor++
		}
	case key.Matches(msg, m.keys.Enter):
		if len(roadmaps) > 0 {
			m.roadmap = roadmaps[m.roadmapCursor]
			m.buildRows()
			m.state = StateLessons
		}
	}

	return m, nil
}

func (m Model) updateLessons(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.state = StateRoadmaps
		m.err = nil
	case key.Matches(msg, m.keys.Up):
		if next := m.firstSelectable(m.cursor-1, -1); next >= 0 && next < m.cursor {
			m.cursor = next
		}
	case key.Matches(msg, m.keys.Down):
		if next := m.firstSelectable(m.cursor+1, 1); next > m.cursor {
			m.cursor = next
		}
	case key.Matches(msg, m.keys.Toggle), key.Matches(msg, m.keys.Enter):
		m.toggleCurrent()
	}

	m.clampScroll()
	return m, nil
}

// toggleCurrent flips completion for the lesson under the cursor. Cheat
// sheets are reference-only and never tracked.
func (m *Model) toggleCurrent() {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return
	}
	r := m.rows[m.cursor]
	if r.subtopic == "" || r.cheat {
		return
	}

	doc := m.store.Document()
	sp, _ := doc.Subtopic(m.roadmap.ID, r.phase, r.topic, r.subtopic)
	if sp.Completed {
		m.err = m.tracker.MarkIncomplete(m.roadmap.ID, r.phase, r.topic, r.subtopic)
	} else {
		m.err = m.tracker.MarkComplete(m.roadmap.ID, r.phase, r.topic, r.subtopic, 0)
	}
}

// clampScroll keeps the cursor inside the visible window. A roadmap with no
// lesson rows leaves the cursor at -1; the window stays put.
func (m *Model) clampScroll() {
	visible := m.visibleLines()
	if visible <= 0 || m.cursor < 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m *Model) visibleLines() int {
	// header + summary + help take a few lines
	v := m.height - 6
	if v < 1 {
		v = 1
	}
	return v
}
