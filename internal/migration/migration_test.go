package migration

import (
	"encoding/json"
	"testing"

	"github.com/trailmark/trailmark/internal/models"
)

const legacyDoc = `{
  "startedAt": "2024-03-01T10:00:00Z",
  "phases": {
    "phase-1": {
      "topics": {
        "topic-a": {
          "subtopics": {
            "lesson-1": {"completed": true, "completedAt": "2024-03-02T09:00:00Z", "quizScore": 90}
          }
        }
      }
    }
  },
  "lastAccessed": "phase-1/topic-a/lesson-1",
  "totalTimeSpent": 120,
  "userName": "Jane"
}`

func TestMigrateCurrentShapePassesThrough(t *testing.T) {
	doc := models.NewProgressDocument()
	doc.EnsureRoadmap("devops", "2024-01-01T00:00:00Z")
	doc.GlobalSettings.UserName = "Ada"

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	got := Migrate(raw)
	if got.Version != models.CurrentVersion {
		t.Fatalf("version = %d, want %d", got.Version, models.CurrentVersion)
	}
	if got.GlobalSettings.UserName != "Ada" {
		t.Errorf("userName = %q, want Ada", got.GlobalSettings.UserName)
	}
	if _, ok := got.Roadmap("devops"); !ok {
		t.Error("expected devops roadmap to survive")
	}
}

func TestMigrateLegacyRoundTrip(t *testing.T) {
	got := Migrate([]byte(legacyDoc))

	if got.Version != models.CurrentVersion {
		t.Fatalf("version = %d, want %d", got.Version, models.CurrentVersion)
	}

	rp, ok := got.Roadmap(LegacyRoadmapID)
	if !ok {
		t.Fatalf("expected legacy progress under %q", LegacyRoadmapID)
	}

	if rp.StartedAt != "2024-03-01T10:00:00Z" {
		t.Errorf("startedAt = %q", rp.StartedAt)
	}
	if rp.LastAccessed != "phase-1/topic-a/lesson-1" {
		t.Errorf("lastAccessed = %q", rp.LastAccessed)
	}
	if rp.TotalTimeSpent != 120 {
		t.Errorf("totalTimeSpent = %d, want 120", rp.TotalTimeSpent)
	}
	if got.GlobalSettings.UserName != "Jane" {
		t.Errorf("userName = %q, want Jane", got.GlobalSettings.UserName)
	}

	sp, ok := got.Subtopic(LegacyRoadmapID, "phase-1", "topic-a", "lesson-1")
	if !ok {
		t.Fatal("expected lesson-1 to survive migration")
	}
	if !sp.Completed || sp.QuizScore == nil || *sp.QuizScore != 90 {
		t.Errorf("lesson-1 progress mangled: %+v", sp)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	inputs := [][]byte{
		[]byte(legacyDoc),
		[]byte(`{"version": 2, "roadmaps": {}, "globalSettings": {}}`),
		[]byte(`not json at all`),
		[]byte(`{"some": "other shape"}`),
		nil,
	}

	for _, in := range inputs {
		once := Migrate(in)
		onceRaw, err := json.Marshal(once)
		if err != nil {
			t.Fatal(err)
		}

		twice := Migrate(onceRaw)
		twiceRaw, err := json.Marshal(twice)
		if err != nil {
			t.Fatal(err)
		}

		if string(onceRaw) != string(twiceRaw) {
			t.Errorf("Migrate not idempotent for %q:\nonce:  %s\ntwice: %s", in, onceRaw, twiceRaw)
		}
	}
}

func TestMigrateCorruptInputStartsFresh(t *testing.T) {
	for _, in := range [][]byte{
		nil,
		[]byte(""),
		[]byte("   "),
		[]byte("{broken"),
		[]byte(`[1,2,3]`),
		[]byte(`{"version": 99, "roadmaps": {}}`),
		[]byte(`{"startedAt": "x", "phases": "not an object"}`),
	} {
		got := Migrate(in)
		if got == nil {
			t.Fatalf("Migrate(%q) returned nil", in)
		}
		if got.Version != models.CurrentVersion {
			t.Errorf("Migrate(%q).Version = %d", in, got.Version)
		}
		if len(got.Roadmaps) != 0 {
			t.Errorf("Migrate(%q) should start fresh, got %d roadmaps", in, len(got.Roadmaps))
		}
	}
}

func TestMigrateVersionedLegacyFieldsIgnored(t *testing.T) {
	// A document with a version but no roadmaps object is unrecognized,
	// even if it carries legacy-looking fields.
	raw := []byte(`{"version": 2, "startedAt": "2024-01-01T00:00:00Z", "phases": {}}`)
	got := Migrate(raw)
	if len(got.Roadmaps) != 0 {
		t.Errorf("expected fresh document, got %d roadmaps", len(got.Roadmaps))
	}
}
