package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trailmark/trailmark/internal/catalog"
	"github.com/trailmark/trailmark/internal/progress"
	"github.com/trailmark/trailmark/internal/storage"
)

func browserRoadmap() *catalog.RoadmapDefinition {
	return &catalog.RoadmapDefinition{
		ID:    "devops",
		Title: "DevOps Engineer",
		Phases: []catalog.PhaseDefinition{
			{
				Slug:  "phase-1",
				Title: "Phase 1: Foundations",
				Topics: []catalog.TopicDefinition{
					{Slug: "topic-a", Title: "Basics", Subtopics: []string{"Lesson 1", "Lesson 2"}},
				},
			},
		},
	}
}

func newLessonModel(t *testing.T, def *catalog.RoadmapDefinition) Model {
	t.Helper()

	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "progress.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}

	m := NewModel(store, nil, progress.NewTracker(store))
	m.roadmap = def
	m.state = StateLessons
	m.buildRows()
	return m
}

func press(t *testing.T, m Model, key tea.KeyType) Model {
	t.Helper()
	next, _ := m.updateLessons(tea.KeyMsg{Type: key})
	return next.(Model)
}

func TestLessonCursorStartsOnFirstLesson(t *testing.T) {
	m := newLessonModel(t, browserRoadmap())

	// rows: phase header, topic header, lesson-1, lesson-2
	if len(m.rows) != 4 {
		t.Fatalf("row count = %d, want 4", len(m.rows))
	}
	if m.cursor != 2 || m.rows[m.cursor].subtopic != "lesson-1" {
		t.Errorf("cursor = %d (%+v), want first lesson row", m.cursor, m.rows[m.cursor])
	}
}

func TestLessonCursorStopsAtEdges(t *testing.T) {
	m := newLessonModel(t, browserRoadmap())

	// Up from the first lesson stays put
	m = press(t, m, tea.KeyUp)
	if m.rows[m.cursor].subtopic != "lesson-1" {
		t.Errorf("cursor after Up at top = %+v", m.rows[m.cursor])
	}

	m = press(t, m, tea.KeyDown)
	if m.rows[m.cursor].subtopic != "lesson-2" {
		t.Errorf("cursor after Down = %+v", m.rows[m.cursor])
	}

	// Down from the last row must not walk past the slice
	m = press(t, m, tea.KeyDown)
	m = press(t, m, tea.KeyDown)
	if m.cursor != len(m.rows)-1 || m.rows[m.cursor].subtopic != "lesson-2" {
		t.Errorf("cursor after Down at bottom = %d", m.cursor)
	}
}

func TestLessonBrowserWithNoLessons(t *testing.T) {
	m := newLessonModel(t, &catalog.RoadmapDefinition{ID: "empty", Title: "Empty"})

	if len(m.rows) != 0 {
		t.Fatalf("row count = %d, want 0", len(m.rows))
	}
	if m.cursor != -1 {
		t.Errorf("cursor = %d, want -1 when nothing is selectable", m.cursor)
	}

	// Navigation and toggling must be no-ops, not panics
	m = press(t, m, tea.KeyDown)
	m = press(t, m, tea.KeyUp)
	m.toggleCurrent()
	if m.cursor != -1 {
		t.Errorf("cursor moved to %d in an empty browser", m.cursor)
	}
	if _, ok := m.store.Document().Roadmap("empty"); ok {
		t.Error("toggling in an empty browser wrote progress")
	}
}

func TestToggleMarksAndUnmarksLesson(t *testing.T) {
	m := newLessonModel(t, browserRoadmap())

	m.toggleCurrent()
	if m.err != nil {
		t.Fatalf("toggle failed: %v", m.err)
	}
	sp, ok := m.store.Document().Subtopic("devops", "phase-1", "topic-a", "lesson-1")
	if !ok || !sp.Completed {
		t.Fatalf("lesson not completed after toggle: %+v, ok = %v", sp, ok)
	}

	m.toggleCurrent()
	sp, _ = m.store.Document().Subtopic("devops", "phase-1", "topic-a", "lesson-1")
	if sp.Completed {
		t.Error("lesson still completed after second toggle")
	}
}
