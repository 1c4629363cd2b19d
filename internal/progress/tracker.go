package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/trailmark/trailmark/internal/catalog"
	"github.com/trailmark/trailmark/internal/migration"
	"github.com/trailmark/trailmark/internal/models"
	"github.com/trailmark/trailmark/internal/storage"
)

// Tracker owns all mutations of the progress document. Every mutating call
// runs to completion and persists before returning; reads go through the
// stats package against Document().
type Tracker struct {
	store storage.Provider
	now   func() time.Time
}

func NewTracker(store storage.Provider) *Tracker {
	return &Tracker{
		store: store,
		now:   time.Now,
	}
}

// NewTrackerWithClock injects a clock for tests.
func NewTrackerWithClock(store storage.Provider, now func() time.Time) *Tracker {
	return &Tracker{
		store: store,
		now:   now,
	}
}

func (t *Tracker) Document() *models.ProgressDocument {
	return t.store.Document()
}

func (t *Tracker) timestamp() string {
	return t.now().UTC().Format(time.RFC3339)
}

// MarkComplete records a lesson as completed. Cheat sheets are a no-op so
// they never count toward totals. Minutes are credited only on the first
// transition to completed; quiz data on the entry is preserved.
func (t *Tracker) MarkComplete(roadmapID, phaseID, topicID, subtopicID string, estimatedMinutes int) error {
	if catalog.IsCheatSheet(subtopicID) {
		return nil
	}

	doc := t.store.Document()
	if doc == nil {
		return fmt.Errorf("storage not loaded")
	}

	now := t.timestamp()
	rp := doc.EnsureRoadmap(roadmapID, now)

	sp, _ := doc.Subtopic(roadmapID, phaseID, topicID, subtopicID)
	if !sp.Completed && estimatedMinutes > 0 {
		rp.TotalTimeSpent += estimatedMinutes
	}

	sp.Completed = true
	sp.CompletedAt = &now

	rp.LastAccessed = fmt.Sprintf("%s/%s/%s", phaseID, topicID, subtopicID)
	doc.Roadmaps[roadmapID] = rp
	doc.SetSubtopic(roadmapID, phaseID, topicID, subtopicID, sp)

	return t.store.Save()
}

// MarkIncomplete toggles a lesson back to incomplete. Credited time and quiz
// data are kept. A lesson that was never touched is a no-op.
func (t *Tracker) MarkIncomplete(roadmapID, phaseID, topicID, subtopicID string) error {
	doc := t.store.Document()
	if doc == nil {
		return fmt.Errorf("storage not loaded")
	}

	sp, ok := doc.Subtopic(roadmapID, phaseID, topicID, subtopicID)
	if !ok {
		return nil
	}

	sp.Completed = false
	sp.CompletedAt = nil
	doc.SetSubtopic(roadmapID, phaseID, topicID, subtopicID, sp)

	return t.store.Save()
}

// RecordQuizScore stores a quiz result with a best-score-wins policy. The
// document is persisted even when the score does not improve, so every
// attempt leaves a write. Cheat sheets have no quizzes and are a no-op, the
// same as MarkComplete, so they never enter the quiz average.
func (t *Tracker) RecordQuizScore(roadmapID, phaseID, topicID, subtopicID string, score int) error {
	if catalog.IsCheatSheet(subtopicID) {
		return nil
	}
	if score < 0 || score > 100 {
		return fmt.Errorf("quiz score must be between 0 and 100, got %d", score)
	}

	doc := t.store.Document()
	if doc == nil {
		return fmt.Errorf("storage not loaded")
	}

	now := t.timestamp()
	doc.EnsureRoadmap(roadmapID, now)

	sp, _ := doc.Subtopic(roadmapID, phaseID, topicID, subtopicID)
	if sp.QuizScore == nil || score > *sp.QuizScore {
		sp.QuizScore = &score
		sp.QuizCompletedAt = &now
	}
	doc.SetSubtopic(roadmapID, phaseID, topicID, subtopicID, sp)

	return t.store.Save()
}

// SetSchedule configures the study pace for a roadmap.
func (t *Tracker) SetSchedule(roadmapID, startDate string, studyDaysPerWeek int) error {
	if studyDaysPerWeek < 1 || studyDaysPerWeek > 7 {
		return fmt.Errorf("study days per week must be between 1 and 7, got %d", studyDaysPerWeek)
	}
	if _, err := time.Parse("2006-01-02", startDate); err != nil {
		return fmt.Errorf("invalid start date, use YYYY-MM-DD: %w", err)
	}

	doc := t.store.Document()
	if doc == nil {
		return fmt.Errorf("storage not loaded")
	}

	rp := doc.EnsureRoadmap(roadmapID, t.timestamp())
	rp.Schedule = &models.StudySchedule{
		StartDate:        startDate,
		StudyDaysPerWeek: studyDaysPerWeek,
	}
	doc.Roadmaps[roadmapID] = rp

	return t.store.Save()
}

func (t *Tracker) ClearSchedule(roadmapID string) error {
	doc := t.store.Document()
	if doc == nil {
		return fmt.Errorf("storage not loaded")
	}

	rp, ok := doc.Roadmap(roadmapID)
	if !ok || rp.Schedule == nil {
		return nil
	}
	rp.Schedule = nil
	doc.Roadmaps[roadmapID] = rp

	return t.store.Save()
}

// SetUserName stores the learner name shared across all roadmaps.
func (t *Tracker) SetUserName(name string) error {
	doc := t.store.Document()
	if doc == nil {
		return fmt.Errorf("storage not loaded")
	}

	doc.GlobalSettings.UserName = name
	return t.store.Save()
}

func (t *Tracker) UserName() string {
	doc := t.store.Document()
	if doc == nil {
		return ""
	}
	return doc.GlobalSettings.UserName
}

// ResetRoadmap discards one roadmap's progress.
func (t *Tracker) ResetRoadmap(roadmapID string) error {
	doc := t.store.Document()
	if doc == nil {
		return fmt.Errorf("storage not loaded")
	}

	if _, ok := doc.Roadmaps[roadmapID]; !ok {
		return nil
	}
	delete(doc.Roadmaps, roadmapID)

	return t.store.Save()
}

// ResetAll recreates an empty document.
func (t *Tracker) ResetAll() error {
	return t.store.Replace(models.NewProgressDocument())
}

// Export writes the current document as pretty-printed JSON, the same
// layout the JSON store persists.
func (t *Tracker) Export(path string) error {
	doc := t.store.Document()
	if doc == nil {
		return fmt.Errorf("storage not loaded")
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize progress: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// Import replaces the document with arbitrary JSON text run through the
// migration layer, so legacy exports load through the same fallback path as
// live migration.
func (t *Tracker) Import(data []byte) error {
	return t.store.Replace(migration.Migrate(data))
}
