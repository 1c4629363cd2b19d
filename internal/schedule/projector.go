// Package schedule estimates completion dates from a configured study pace.
package schedule

import (
	"math"
	"time"

	"github.com/trailmark/trailmark/internal/catalog"
	"github.com/trailmark/trailmark/internal/models"
	"github.com/trailmark/trailmark/internal/stats"
)

// ProjectCompletion estimates when the remaining topics will be done at the
// roadmap's configured pace. throughPhase narrows the scope cumulatively
// through and including that phase; empty means the whole roadmap.
//
// The projection re-anchors to today on every call rather than the
// schedule's start date, so the estimate slides later when the learner falls
// behind and earlier when they get ahead. Nil means no estimate: no schedule
// configured, unknown phase, or nothing remaining (already complete).
func ProjectCompletion(doc *models.ProgressDocument, def *catalog.RoadmapDefinition, throughPhase string, today time.Time) *time.Time {
	if def == nil {
		return nil
	}

	rp, ok := doc.Roadmap(def.ID)
	if !ok || rp.Schedule == nil || rp.Schedule.StudyDaysPerWeek < 1 {
		return nil
	}

	completed, total, ok := stats.TopicCounts(doc, def, throughPhase)
	if !ok {
		return nil
	}

	remaining := total - completed
	if remaining <= 0 {
		return nil
	}

	weeksNeeded := float64(remaining) / float64(rp.Schedule.StudyDaysPerWeek)
	days := int(math.Ceil(weeksNeeded * 7))

	// Calendar-day arithmetic from midnight avoids timezone-induced
	// off-by-one drift around date-only values.
	target := Midnight(today).AddDate(0, 0, days)
	return &target
}

// Midnight truncates a time to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
