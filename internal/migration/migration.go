package migration

import (
	"bytes"
	"encoding/json"

	"github.com/trailmark/trailmark/internal/models"
)

// LegacyRoadmapID keys the single roadmap tracked by pre-versioned
// documents, which predate multi-roadmap support.
const LegacyRoadmapID = "devops"

// legacyDocument is the pre-versioned single-roadmap shape: roadmap fields
// and the user name live at the top level.
type legacyDocument struct {
	StartedAt      string                          `json:"startedAt"`
	Phases         map[string]models.PhaseProgress `json:"phases"`
	LastAccessed   string                          `json:"lastAccessed"`
	TotalTimeSpent int                             `json:"totalTimeSpent"`
	UserName       string                          `json:"userName"`
}

// Migrate upgrades raw persisted bytes to a current-version document. It
// never fails: an unrecognized or corrupt shape degrades to a fresh empty
// document. Shape detection is an ordered dispatch so future schema versions
// extend the switch rather than a binary branch. Persisting the result is
// the caller's responsibility.
func Migrate(raw []byte) *models.ProgressDocument {
	if len(bytes.TrimSpace(raw)) == 0 {
		return models.NewProgressDocument()
	}

	var probe struct {
		Version   *int            `json:"version"`
		Roadmaps  json.RawMessage `json:"roadmaps"`
		StartedAt *string         `json:"startedAt"`
		Phases    json.RawMessage `json:"phases"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return models.NewProgressDocument()
	}

	switch {
	case probe.Version != nil && *probe.Version == models.CurrentVersion && isObject(probe.Roadmaps):
		doc := &models.ProgressDocument{}
		if err := json.Unmarshal(raw, doc); err != nil {
			return models.NewProgressDocument()
		}
		doc.Normalize()
		return doc

	case probe.Version == nil && probe.StartedAt != nil && isObject(probe.Phases):
		legacy := &legacyDocument{}
		if err := json.Unmarshal(raw, legacy); err != nil {
			return models.NewProgressDocument()
		}
		return upgradeLegacy(legacy)

	default:
		return models.NewProgressDocument()
	}
}

// upgradeLegacy wraps a single-roadmap legacy document into the v2 layout,
// lifting the top-level user name into global settings.
func upgradeLegacy(legacy *legacyDocument) *models.ProgressDocument {
	doc := models.NewProgressDocument()

	phases := legacy.Phases
	if phases == nil {
		phases = make(map[string]models.PhaseProgress)
	}

	doc.Roadmaps[LegacyRoadmapID] = models.RoadmapProgress{
		StartedAt:      legacy.StartedAt,
		Phases:         phases,
		LastAccessed:   legacy.LastAccessed,
		TotalTimeSpent: legacy.TotalTimeSpent,
	}
	doc.GlobalSettings.UserName = legacy.UserName

	return doc
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
