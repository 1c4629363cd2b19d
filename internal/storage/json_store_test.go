package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/trailmark/trailmark/internal/models"
)

func newTempJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	return NewJSONStore(filepath.Join(t.TempDir(), "progress.json"))
}

func TestJSONStoreInitAndLoad(t *testing.T) {
	store := newTempJSONStore(t)

	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Init(); err == nil {
		t.Error("second Init should fail on an existing file")
	}

	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	doc := store.Document()
	if doc == nil {
		t.Fatal("document is nil after load")
	}
	if doc.Version != models.CurrentVersion {
		t.Errorf("version = %d, want %d", doc.Version, models.CurrentVersion)
	}
	if len(doc.Roadmaps) != 0 {
		t.Errorf("fresh document has %d roadmaps", len(doc.Roadmaps))
	}
}

func TestJSONStoreLoadMissingFile(t *testing.T) {
	store := newTempJSONStore(t)

	err := store.Load()
	if err == nil {
		t.Fatal("expected error loading an uninitialized store")
	}
	if !strings.Contains(err.Error(), "not initialized") {
		t.Errorf("error = %v, want a not-initialized hint", err)
	}
}

func TestJSONStoreSaveRoundTrip(t *testing.T) {
	store := newTempJSONStore(t)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	doc := store.Document()
	doc.EnsureRoadmap("devops", "2026-01-01T00:00:00Z")
	ts := "2026-02-01T10:00:00Z"
	doc.SetSubtopic("devops", "phase-1", "topic-a", "lesson-1", models.SubtopicProgress{
		Completed:   true,
		CompletedAt: &ts,
	})
	doc.GlobalSettings.UserName = "Jane"
	if err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reopened := NewJSONStore(store.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	got := reopened.Document()
	if got.GlobalSettings.UserName != "Jane" {
		t.Errorf("userName = %q", got.GlobalSettings.UserName)
	}
	sp, ok := got.Subtopic("devops", "phase-1", "topic-a", "lesson-1")
	if !ok || !sp.Completed || sp.CompletedAt == nil || *sp.CompletedAt != ts {
		t.Errorf("subtopic = %+v, ok = %v", sp, ok)
	}
}

func TestJSONStorePersistedLayout(t *testing.T) {
	store := newTempJSONStore(t)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	doc := store.Document()
	doc.EnsureRoadmap("devops", "2026-01-01T00:00:00Z")
	ts := "2026-02-01T10:00:00Z"
	score := 85
	doc.SetSubtopic("devops", "phase-1", "topic-a", "lesson-1", models.SubtopicProgress{
		Completed:   true,
		CompletedAt: &ts,
		QuizScore:   &score,
	})
	if err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(store.GetConfigPath())
	if err != nil {
		t.Fatalf("failed to read store file: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("store file is not valid JSON: %v", err)
	}
	for _, key := range []string{"version", "roadmaps", "globalSettings"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("top-level key %q missing from persisted file", key)
		}
	}

	// Leaf keys are part of the exchange format, not an implementation detail
	text := string(data)
	for _, key := range []string{`"completed"`, `"completedAt"`, `"quizScore"`, `"subtopics"`, `"topics"`, `"phases"`, `"startedAt"`} {
		if !strings.Contains(text, key) {
			t.Errorf("persisted file is missing key %s", key)
		}
	}
	if !strings.Contains(text, "\n  ") {
		t.Error("persisted file should be pretty-printed")
	}
}

func TestJSONStoreUpgradesLegacyFileOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	legacy := []byte(`{
		"startedAt": "2023-06-01T00:00:00Z",
		"phases": {
			"phase-1": {"topics": {"topic-a": {"subtopics": {"lesson-1": {"completed": true, "completedAt": "2023-06-02T00:00:00Z", "quizScore": null}}}}}
		},
		"totalTimeSpent": 30,
		"userName": "Jane"
	}`)
	if err := os.WriteFile(path, legacy, 0600); err != nil {
		t.Fatalf("failed to seed legacy file: %v", err)
	}

	store := NewJSONStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	doc := store.Document()
	if doc.Version != models.CurrentVersion {
		t.Errorf("version = %d, want %d", doc.Version, models.CurrentVersion)
	}
	rp, ok := doc.Roadmap("devops")
	if !ok {
		t.Fatal("legacy progress not wrapped under devops")
	}
	if rp.TotalTimeSpent != 30 {
		t.Errorf("totalTimeSpent = %d, want 30", rp.TotalTimeSpent)
	}
	if doc.GlobalSettings.UserName != "Jane" {
		t.Errorf("userName = %q, want Jane", doc.GlobalSettings.UserName)
	}

	// The upgrade must be written back immediately so the on-disk file never
	// stays in the legacy layout.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read store file: %v", err)
	}
	if !isCurrentVersion(data) {
		t.Error("on-disk file still in legacy layout after load")
	}
}

func TestJSONStoreSaveBeforeLoad(t *testing.T) {
	store := newTempJSONStore(t)
	if err := store.Save(); err == nil {
		t.Error("Save before Load should fail")
	}
}

func TestJSONStoreReplace(t *testing.T) {
	store := newTempJSONStore(t)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := store.Replace(nil); err == nil {
		t.Error("Replace(nil) should fail")
	}

	next := models.NewProgressDocument()
	next.GlobalSettings.UserName = "Replaced"
	next.Roadmaps = nil // Replace must normalize
	if err := store.Replace(next); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if store.Document().Roadmaps == nil {
		t.Error("roadmaps map is nil after Replace")
	}

	reopened := NewJSONStore(store.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reopened.Document().GlobalSettings.UserName != "Replaced" {
		t.Error("replaced document was not persisted")
	}
}
