package validation

import (
	"strings"
	"testing"

	"github.com/trailmark/trailmark/internal/catalog"
	"github.com/trailmark/trailmark/internal/models"
)

func strp(s string) *string { return &s }

func intp(n int) *int { return &n }

func cleanDoc() *models.ProgressDocument {
	doc := models.NewProgressDocument()
	doc.EnsureRoadmap("devops", "2026-01-01T00:00:00Z")
	doc.SetSubtopic("devops", "phase-1", "linux-basics", "lesson-1", models.SubtopicProgress{
		Completed:   true,
		CompletedAt: strp("2026-02-01T10:00:00Z"),
		QuizScore:   intp(85),
	})
	return doc
}

func conflictTypes(result ValidationResult) map[ConflictType]int {
	counts := make(map[ConflictType]int)
	for _, c := range result.Conflicts {
		counts[c.Type]++
	}
	return counts
}

func TestValidateCleanDocument(t *testing.T) {
	result := New().ValidateDocument(cleanDoc(), nil)
	if result.HasConflicts() {
		t.Errorf("clean document reported conflicts:\n%s", result.FormatReport())
	}
	if got := result.FormatReport(); got != "No conflicts detected." {
		t.Errorf("report = %q", got)
	}
}

func TestValidateNilDocument(t *testing.T) {
	result := New().ValidateDocument(nil, nil)
	if result.HasConflicts() {
		t.Error("nil document should have no conflicts")
	}
}

func TestValidateBadVersion(t *testing.T) {
	doc := cleanDoc()
	doc.Version = 1

	result := New().ValidateDocument(doc, nil)
	if conflictTypes(result)[ConflictBadVersion] != 1 {
		t.Errorf("expected one bad_version conflict:\n%s", result.FormatReport())
	}
}

func TestValidateTimestampConsistency(t *testing.T) {
	doc := cleanDoc()
	doc.SetSubtopic("devops", "phase-1", "linux-basics", "no-stamp", models.SubtopicProgress{
		Completed: true,
	})
	doc.SetSubtopic("devops", "phase-1", "linux-basics", "bad-stamp", models.SubtopicProgress{
		Completed:   true,
		CompletedAt: strp("yesterday"),
	})
	doc.SetSubtopic("devops", "phase-1", "linux-basics", "stale-stamp", models.SubtopicProgress{
		Completed:   false,
		CompletedAt: strp("2026-02-01T10:00:00Z"),
	})

	counts := conflictTypes(New().ValidateDocument(doc, nil))
	if counts[ConflictMissingTimestamp] != 2 {
		t.Errorf("missing_timestamp count = %d, want 2", counts[ConflictMissingTimestamp])
	}
	if counts[ConflictStaleTimestamp] != 1 {
		t.Errorf("stale_timestamp count = %d, want 1", counts[ConflictStaleTimestamp])
	}
}

func TestValidateScoreRange(t *testing.T) {
	doc := cleanDoc()
	doc.SetSubtopic("devops", "phase-1", "linux-basics", "too-high", models.SubtopicProgress{
		QuizScore: intp(101),
	})
	doc.SetSubtopic("devops", "phase-1", "linux-basics", "negative", models.SubtopicProgress{
		QuizScore: intp(-5),
	})

	counts := conflictTypes(New().ValidateDocument(doc, nil))
	if counts[ConflictScoreOutOfRange] != 2 {
		t.Errorf("score_out_of_range count = %d, want 2", counts[ConflictScoreOutOfRange])
	}
}

func TestValidateScheduleAndRoadmapFields(t *testing.T) {
	doc := cleanDoc()
	rp, _ := doc.Roadmap("devops")
	rp.TotalTimeSpent = -10
	rp.LastAccessed = "not-a-path"
	rp.Schedule = &models.StudySchedule{StartDate: "March 1st", StudyDaysPerWeek: 9}
	doc.Roadmaps["devops"] = rp

	counts := conflictTypes(New().ValidateDocument(doc, nil))
	if counts[ConflictNegativeTime] != 1 {
		t.Errorf("negative_time count = %d, want 1", counts[ConflictNegativeTime])
	}
	if counts[ConflictBadLastAccessed] != 1 {
		t.Errorf("bad_last_accessed count = %d, want 1", counts[ConflictBadLastAccessed])
	}
	if counts[ConflictBadSchedule] != 2 {
		t.Errorf("bad_schedule count = %d, want 2 (range and date)", counts[ConflictBadSchedule])
	}
}

func TestValidateCatalogReferences(t *testing.T) {
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	doc := cleanDoc()
	doc.EnsureRoadmap("made-up", "2026-01-01T00:00:00Z")
	doc.SetSubtopic("devops", "phase-99", "linux-basics", "lesson-1", models.SubtopicProgress{})
	doc.SetSubtopic("devops", "phase-1", "made-up-topic", "lesson-1", models.SubtopicProgress{})

	counts := conflictTypes(New().ValidateDocument(doc, cat))
	if counts[ConflictUnknownCatalogRef] != 3 {
		t.Errorf("unknown_catalog_ref count = %d, want 3 (roadmap, phase, topic)",
			counts[ConflictUnknownCatalogRef])
	}

	// The same document is clean without a catalog to check against
	counts = conflictTypes(New().ValidateDocument(doc, nil))
	if counts[ConflictUnknownCatalogRef] != 0 {
		t.Errorf("unknown_catalog_ref without catalog = %d, want 0",
			counts[ConflictUnknownCatalogRef])
	}
}

func TestFormatReportListsPaths(t *testing.T) {
	doc := cleanDoc()
	doc.SetSubtopic("devops", "phase-1", "linux-basics", "no-stamp", models.SubtopicProgress{
		Completed: true,
	})

	result := New().ValidateDocument(doc, nil)
	report := result.FormatReport()
	if !strings.Contains(report, "devops/phase-1/linux-basics/no-stamp") {
		t.Errorf("report does not name the offending path:\n%s", report)
	}
}
