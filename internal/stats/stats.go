// Package stats is the derivation engine: pure read functions computing
// completion statistics from a progress document cross-referenced against
// the roadmap catalog. Nothing here mutates state, and missing roadmap,
// phase, or topic references always count as zero rather than erroring.
package stats

import (
	"math"
	"strings"

	"github.com/trailmark/trailmark/internal/catalog"
	"github.com/trailmark/trailmark/internal/models"
)

// CompletedSubtopics counts completed lessons recorded in the document under
// the given scope. Empty phaseID or topicID widens the scope to the whole
// roadmap or phase.
func CompletedSubtopics(doc *models.ProgressDocument, roadmapID, phaseID, topicID string) int {
	rp, ok := doc.Roadmap(roadmapID)
	if !ok {
		return 0
	}

	count := 0
	for pID, pp := range rp.Phases {
		if phaseID != "" && pID != phaseID {
			continue
		}
		for tID, tp := range pp.Topics {
			if topicID != "" && tID != topicID {
				continue
			}
			for _, sp := range tp.Subtopics {
				if sp.Completed {
					count++
				}
			}
		}
	}
	return count
}

// TotalSubtopics counts countable lessons defined by the catalog under the
// given scope, excluding cheat sheets.
func TotalSubtopics(def *catalog.RoadmapDefinition, phaseID, topicID string) int {
	if def == nil {
		return 0
	}

	count := 0
	for _, phase := range def.Phases {
		if phaseID != "" && phase.Slug != phaseID {
			continue
		}
		for _, topic := range phase.Topics {
			if topicID != "" && topic.Slug != topicID {
				continue
			}
			count += len(topic.CountableSubtopics())
		}
	}
	return count
}

// CompletionPercent returns round(100*completed/total), or 0 for an empty
// scope. A zero-lesson scope reports 0%, never 100% or a division error.
func CompletionPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// AverageQuizScore returns the rounded mean of all recorded quiz scores in
// scope, or 0 when no quiz has been attempted. Absence and "scored zero" are
// intentionally not distinguished here.
func AverageQuizScore(doc *models.ProgressDocument, roadmapID, phaseID string) int {
	rp, ok := doc.Roadmap(roadmapID)
	if !ok {
		return 0
	}

	sum, n := 0, 0
	for pID, pp := range rp.Phases {
		if phaseID != "" && pID != phaseID {
			continue
		}
		for _, tp := range pp.Topics {
			for _, sp := range tp.Subtopics {
				if sp.QuizScore != nil {
					sum += *sp.QuizScore
					n++
				}
			}
		}
	}

	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// TimeSpentHours converts a roadmap's accumulated minutes to hours with one
// decimal place.
func TimeSpentHours(doc *models.ProgressDocument, roadmapID string) float64 {
	rp, ok := doc.Roadmap(roadmapID)
	if !ok {
		return 0
	}
	return math.Round(float64(rp.TotalTimeSpent)/60*10) / 10
}

// CertificateEligible reports whether every countable lesson of the roadmap
// is completed. A roadmap with zero countable content is never eligible.
func CertificateEligible(doc *models.ProgressDocument, def *catalog.RoadmapDefinition) bool {
	if def == nil {
		return false
	}
	total := TotalSubtopics(def, "", "")
	return total > 0 && CompletedSubtopics(doc, def.ID, "", "") == total
}

// Target is the lesson to resume at, parsed from lastAccessed.
type Target struct {
	Phase    string
	Topic    string
	Subtopic string
}

// ResumeTarget parses the roadmap's lastAccessed path. It returns nil when
// the field is absent or does not split into exactly three non-empty
// segments.
func ResumeTarget(doc *models.ProgressDocument, roadmapID string) *Target {
	rp, ok := doc.Roadmap(roadmapID)
	if !ok || rp.LastAccessed == "" {
		return nil
	}

	parts := strings.Split(rp.LastAccessed, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return nil
	}

	return &Target{Phase: parts[0], Topic: parts[1], Subtopic: parts[2]}
}

// TopicCounts returns completed and total topic counts for the schedule
// projector. An empty throughPhase covers the whole roadmap; otherwise the
// scope is cumulative through and including the named phase in catalog
// order. ok is false when the named phase is not in the catalog.
//
// A topic counts as completed when all of its countable lessons are
// completed; topics with no countable lessons are excluded from both counts
// so they can never hold the projection open.
func TopicCounts(doc *models.ProgressDocument, def *catalog.RoadmapDefinition, throughPhase string) (completed, total int, ok bool) {
	if def == nil {
		return 0, 0, false
	}

	found := throughPhase == ""
	for _, phase := range def.Phases {
		for _, topic := range phase.Topics {
			if len(topic.CountableSubtopics()) == 0 {
				continue
			}
			total++
			if topicCompleted(doc, def.ID, phase.Slug, &topic) {
				completed++
			}
		}
		if throughPhase != "" && phase.Slug == throughPhase {
			found = true
			break
		}
	}

	if !found {
		return 0, 0, false
	}
	return completed, total, true
}

func topicCompleted(doc *models.ProgressDocument, roadmapID, phaseID string, topic *catalog.TopicDefinition) bool {
	countable := topic.CountableSubtopics()
	if len(countable) == 0 {
		return false
	}
	for _, slug := range countable {
		sp, ok := doc.Subtopic(roadmapID, phaseID, topic.Slug, slug)
		if !ok || !sp.Completed {
			return false
		}
	}
	return true
}
