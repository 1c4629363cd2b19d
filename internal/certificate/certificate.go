// Package certificate gates and assembles completion-certificate payloads.
// Rendering is left to downstream consumers; everything here is data.
package certificate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trailmark/trailmark/internal/catalog"
	"github.com/trailmark/trailmark/internal/logger"
	"github.com/trailmark/trailmark/internal/models"
	"github.com/trailmark/trailmark/internal/stats"
)

// LessonEstimateMinutes is the fixed per-lesson time estimate used for phase
// certificates. It is deliberately independent of the accumulated
// totalTimeSpent field, which tracks only minutes credited at completion.
const LessonEstimateMinutes = 45

// PhaseCertificate is the payload for a single phase completed at 100%.
type PhaseCertificate struct {
	ID               string
	UserName         string
	CompletionDate   time.Time
	PhaseNumber      int
	PhaseName        string
	LessonsCompleted int
	TotalLessons     int
	AverageQuizScore int
	HoursSpent       float64
}

// PhaseCompletion records when one phase of a finished roadmap was done.
type PhaseCompletion struct {
	PhaseNumber int
	PhaseName   string
	CompletedAt time.Time
}

// CourseCertificate is the payload for an entire roadmap completed at 100%.
type CourseCertificate struct {
	ID               string
	UserName         string
	CompletionDate   time.Time
	RoadmapTitle     string
	LessonsCompleted int
	TotalLessons     int
	AverageQuizScore int
	HoursSpent       float64
	PhaseCompletions []PhaseCompletion
}

var phasePrefixRe = regexp.MustCompile(`^Phase \d+:\s*`)

// phaseDisplayName strips a leading "Phase N: " prefix from a phase title.
func phaseDisplayName(title string) string {
	return phasePrefixRe.ReplaceAllString(title, "")
}

// newCertificateID builds a display-only identifier:
// {ROADMAP}-{kind}-{base36 timestamp}-{random suffix}. It is unique per call
// and never used as a lookup key.
func newCertificateID(roadmapID, kind string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s-%s-%s",
		strings.ToUpper(roadmapID), kind, strconv.FormatInt(now.Unix(), 36), suffix)
}

// BuildPhaseCertificate assembles a phase certificate, or nil when the phase
// is unknown, not fully completed, or no learner name is set. A nil return
// is the "not ready yet" signal the caller turns into corrective UI.
func BuildPhaseCertificate(doc *models.ProgressDocument, def *catalog.RoadmapDefinition, phaseSlug string, now time.Time) *PhaseCertificate {
	if def == nil {
		return nil
	}

	phase, ok := def.Phase(phaseSlug)
	if !ok {
		logger.Warn("phase certificate requested for unknown phase",
			"roadmap", def.ID, "phase", phaseSlug)
		return nil
	}

	userName := strings.TrimSpace(doc.GlobalSettings.UserName)
	if userName == "" {
		logger.Warn("phase certificate requested without a learner name",
			"roadmap", def.ID, "phase", phaseSlug)
		return nil
	}

	total := stats.TotalSubtopics(def, phaseSlug, "")
	completed := stats.CompletedSubtopics(doc, def.ID, phaseSlug, "")
	if total == 0 || completed < total {
		logger.Warn("phase certificate requested before completion",
			"roadmap", def.ID, "phase", phaseSlug, "completed", completed, "total", total)
		return nil
	}

	phaseNumber := 0
	for i := range def.Phases {
		if def.Phases[i].Slug == phaseSlug {
			phaseNumber = i + 1
			break
		}
	}

	hours := float64(completed*LessonEstimateMinutes) / 60

	return &PhaseCertificate{
		ID:               newCertificateID(def.ID, "P", now),
		UserName:         userName,
		CompletionDate:   now,
		PhaseNumber:      phaseNumber,
		PhaseName:        phaseDisplayName(phase.Title),
		LessonsCompleted: completed,
		TotalLessons:     total,
		AverageQuizScore: stats.AverageQuizScore(doc, def.ID, phaseSlug),
		HoursSpent:       roundTenth(hours),
	}
}

// BuildCourseCertificate assembles a whole-roadmap certificate, or nil under
// the same name and completeness gating applied roadmap-wide. Per-phase
// completion dates are the latest completedAt among each phase's lessons, in
// catalog phase order, falling back to now for a phase with no dated
// completions.
func BuildCourseCertificate(doc *models.ProgressDocument, def *catalog.RoadmapDefinition, now time.Time) *CourseCertificate {
	if def == nil {
		return nil
	}

	userName := strings.TrimSpace(doc.GlobalSettings.UserName)
	if userName == "" {
		logger.Warn("course certificate requested without a learner name", "roadmap", def.ID)
		return nil
	}

	if !stats.CertificateEligible(doc, def) {
		logger.Warn("course certificate requested before completion", "roadmap", def.ID)
		return nil
	}

	completions := make([]PhaseCompletion, 0, len(def.Phases))
	for i, phase := range def.Phases {
		completions = append(completions, PhaseCompletion{
			PhaseNumber: i + 1,
			PhaseName:   phaseDisplayName(phase.Title),
			CompletedAt: latestCompletion(doc, def.ID, phase.Slug, now),
		})
	}

	total := stats.TotalSubtopics(def, "", "")

	return &CourseCertificate{
		ID:               newCertificateID(def.ID, "C", now),
		UserName:         userName,
		CompletionDate:   now,
		RoadmapTitle:     def.Title,
		LessonsCompleted: stats.CompletedSubtopics(doc, def.ID, "", ""),
		TotalLessons:     total,
		AverageQuizScore: stats.AverageQuizScore(doc, def.ID, ""),
		HoursSpent:       stats.TimeSpentHours(doc, def.ID),
		PhaseCompletions: completions,
	}
}

// latestCompletion finds the most recent completedAt among a phase's
// lessons. A phase with no parseable timestamps reports now; that should
// not occur once a roadmap is fully complete.
func latestCompletion(doc *models.ProgressDocument, roadmapID, phaseSlug string, now time.Time) time.Time {
	rp, ok := doc.Roadmap(roadmapID)
	if !ok {
		return now
	}

	var latest time.Time
	pp, ok := rp.Phases[phaseSlug]
	if ok {
		for _, tp := range pp.Topics {
			for _, sp := range tp.Subtopics {
				if sp.CompletedAt == nil {
					continue
				}
				ts, err := time.Parse(time.RFC3339, *sp.CompletedAt)
				if err != nil {
					continue
				}
				if ts.After(latest) {
					latest = ts
				}
			}
		}
	}

	if latest.IsZero() {
		return now
	}
	return latest
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
