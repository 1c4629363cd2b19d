package tui

import (
	"github.com/charmbracelet/bubbles/help"

	"github.com/trailmark/trailmark/internal/catalog"
	"github.com/trailmark/trailmark/internal/progress"
	"github.com/trailmark/trailmark/internal/storage"
)

type SessionState int

const (
	StateRoadmaps SessionState = iota
	StateLessons
)

// row is one selectable line in the lesson browser. Header rows (phase and
// topic titles) are rendered but skipped by the cursor.
type row struct {
	header   string // non-empty for phase/topic header rows
	indent   int
	phase    string
	topic    string
	subtopic string // slug; empty for headers
	name     string // display name
	cheat    bool
}

type Model struct {
	store    storage.Provider
	catalog  *catalog.Catalog
	tracker  *progress.Tracker
	state    SessionState
	keys     KeyMap
	help     help.Model
	width    int
	height   int
	quitting bool
	err      error

	// roadmap selection
	roadmapCursor int

	// lesson browser
	roadmap *catalog.RoadmapDefinition
	rows    []row
	cursor  int
	offset  int
}

func NewModel(store storage.Provider, cat *catalog.Catalog, tracker *progress.Tracker) Model {
	return Model{
		store:   store,
		catalog: cat,
		tracker: tracker,
		state:   StateRoadmaps,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
}

// buildRows flattens the selected roadmap into display rows.
func (m *Model) buildRows() {
	m.rows = m.rows[:0]
	for _, phase := range m.roadmap.Phases {
		m.rows = append(m.rows, row{header: phase.Title})
		for _, topic := range phase.Topics {
			m.rows = append(m.rows, row{header: topic.Title, indent: 1})
			for _, name := range topic.Subtopics {
				slug := catalog.Slugify(name)
				m.rows = append(m.rows, row{
					indent:   2,
					phase:    phase.Slug,
					topic:    topic.Slug,
					subtopic: slug,
					name:     name,
					cheat:    slug == catalog.CheatSheetSlug,
				})
			}
		}
	}
	m.cursor = m.firstSelectable(0, 1)
	m.offset = 0
}

// firstSelectable finds the next lesson row starting at i, scanning in
// direction dir. Returns -1 when no lesson row lies in that direction.
func (m *Model) firstSelectable(i, dir int) int {
	for j := i; j >= 0 && j < len(m.rows); j += dir {
		if m.rows[j].subtopic != "" {
			return j
		}
	}
	return -1
}
