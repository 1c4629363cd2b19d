package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/trailmark/trailmark/internal/catalog"
	"github.com/trailmark/trailmark/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictBadVersion        ConflictType = "bad_version"
	ConflictMissingTimestamp  ConflictType = "missing_timestamp"
	ConflictStaleTimestamp    ConflictType = "stale_timestamp"
	ConflictScoreOutOfRange   ConflictType = "score_out_of_range"
	ConflictBadSchedule       ConflictType = "bad_schedule"
	ConflictBadLastAccessed   ConflictType = "bad_last_accessed"
	ConflictNegativeTime      ConflictType = "negative_time"
	ConflictUnknownCatalogRef ConflictType = "unknown_catalog_ref"
)

// Conflict represents a detected invariant violation in the document
type Conflict struct {
	Type        ConflictType
	Description string
	Path        string // roadmap[/phase[/topic[/subtopic]]]
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- [%s] %s\n", conflict.Path, conflict.Description)
	}
	return report
}

// Validator checks progress documents for invariant violations
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateDocument checks the document against its structural invariants
// and, when a catalog is provided, flags references the catalog does not
// know. Catalog mismatches are tolerated everywhere else in the application;
// the doctor surfaces them so stale progress can be cleaned up.
func (v *Validator) ValidateDocument(doc *models.ProgressDocument, cat *catalog.Catalog) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	if doc == nil {
		return result
	}

	if doc.Version != models.CurrentVersion {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictBadVersion,
			Description: fmt.Sprintf("document version is %d, expected %d", doc.Version, models.CurrentVersion),
			Path:        "document",
		})
	}

	for roadmapID, rp := range doc.Roadmaps {
		v.validateRoadmap(&result, cat, roadmapID, rp)
	}

	return result
}

func (v *Validator) validateRoadmap(result *ValidationResult, cat *catalog.Catalog, roadmapID string, rp models.RoadmapProgress) {
	var def *catalog.RoadmapDefinition
	if cat != nil {
		d, ok := cat.GetRoadmapByID(roadmapID)
		if !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownCatalogRef,
				Description: "roadmap is not in the catalog",
				Path:        roadmapID,
			})
		} else {
			def = d
		}
	}

	if rp.TotalTimeSpent < 0 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictNegativeTime,
			Description: fmt.Sprintf("total time spent is negative (%d minutes)", rp.TotalTimeSpent),
			Path:        roadmapID,
		})
	}

	if rp.LastAccessed != "" {
		parts := strings.Split(rp.LastAccessed, "/")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictBadLastAccessed,
				Description: fmt.Sprintf("lastAccessed %q is not phase/topic/subtopic", rp.LastAccessed),
				Path:        roadmapID,
			})
		}
	}

	if rp.Schedule != nil {
		if rp.Schedule.StudyDaysPerWeek < 1 || rp.Schedule.StudyDaysPerWeek > 7 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictBadSchedule,
				Description: fmt.Sprintf("studyDaysPerWeek is %d, expected 1..7", rp.Schedule.StudyDaysPerWeek),
				Path:        roadmapID,
			})
		}
		if _, err := time.Parse("2006-01-02", rp.Schedule.StartDate); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictBadSchedule,
				Description: fmt.Sprintf("schedule start date %q is not YYYY-MM-DD", rp.Schedule.StartDate),
				Path:        roadmapID,
			})
		}
	}

	for phaseID, pp := range rp.Phases {
		var phase *catalog.PhaseDefinition
		if def != nil {
			p, ok := def.Phase(phaseID)
			if !ok {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictUnknownCatalogRef,
					Description: "phase is not in the catalog",
					Path:        roadmapID + "/" + phaseID,
				})
			} else {
				phase = p
			}
		}

		for topicID, tp := range pp.Topics {
			if phase != nil {
				if _, ok := phase.Topic(topicID); !ok {
					result.Conflicts = append(result.Conflicts, Conflict{
						Type:        ConflictUnknownCatalogRef,
						Description: "topic is not in the catalog",
						Path:        roadmapID + "/" + phaseID + "/" + topicID,
					})
				}
			}

			for subtopicID, sp := range tp.Subtopics {
				path := roadmapID + "/" + phaseID + "/" + topicID + "/" + subtopicID
				v.validateSubtopic(result, path, sp)
			}
		}
	}
}

func (v *Validator) validateSubtopic(result *ValidationResult, path string, sp models.SubtopicProgress) {
	if sp.Completed {
		if sp.CompletedAt == nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingTimestamp,
				Description: "completed lesson has no completedAt timestamp",
				Path:        path,
			})
		} else if _, err := time.Parse(time.RFC3339, *sp.CompletedAt); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingTimestamp,
				Description: fmt.Sprintf("completedAt %q is not RFC3339", *sp.CompletedAt),
				Path:        path,
			})
		}
	} else if sp.CompletedAt != nil {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictStaleTimestamp,
			Description: "incomplete lesson still carries a completedAt timestamp",
			Path:        path,
		})
	}

	if sp.QuizScore != nil && (*sp.QuizScore < 0 || *sp.QuizScore > 100) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictScoreOutOfRange,
			Description: fmt.Sprintf("quiz score %d is outside 0..100", *sp.QuizScore),
			Path:        path,
		})
	}
}
