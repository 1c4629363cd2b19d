package cli

import (
	"fmt"
	"strings"

	"github.com/trailmark/trailmark/internal/catalog"
	"github.com/trailmark/trailmark/internal/progress"
	"github.com/trailmark/trailmark/internal/stats"
	"github.com/trailmark/trailmark/internal/storage"
)

type Context struct {
	Store   storage.Provider
	Catalog *catalog.Catalog
	Tracker *progress.Tracker
	Debug   bool
}

// requireRoadmap loads storage and resolves a roadmap id against the
// catalog, listing the known ids on a miss.
func requireRoadmap(ctx *Context, roadmapID string) (*catalog.RoadmapDefinition, error) {
	if err := ctx.Store.Load(); err != nil {
		return nil, err
	}

	def, ok := ctx.Catalog.GetRoadmapByID(roadmapID)
	if !ok {
		known := make([]string, 0, len(ctx.Catalog.Roadmaps()))
		for _, r := range ctx.Catalog.Roadmaps() {
			known = append(known, r.ID)
		}
		return nil, fmt.Errorf("unknown roadmap %q (available: %s)", roadmapID, strings.Join(known, ", "))
	}

	return def, nil
}

// requireLesson checks a phase/topic/subtopic path against the roadmap
// definition so a typo is rejected with candidates instead of written to the
// store as orphan progress.
func requireLesson(def *catalog.RoadmapDefinition, phaseID, topicID, subtopicID string) error {
	phase, ok := def.Phase(phaseID)
	if !ok {
		slugs := make([]string, 0, len(def.Phases))
		for _, p := range def.Phases {
			slugs = append(slugs, p.Slug)
		}
		return fmt.Errorf("unknown phase %q in %s (available: %s)",
			phaseID, def.ID, strings.Join(slugs, ", "))
	}

	topic, ok := phase.Topic(topicID)
	if !ok {
		slugs := make([]string, 0, len(phase.Topics))
		for _, t := range phase.Topics {
			slugs = append(slugs, t.Slug)
		}
		return fmt.Errorf("unknown topic %q in %s/%s (available: %s)",
			topicID, def.ID, phaseID, strings.Join(slugs, ", "))
	}

	slugs := make([]string, 0, len(topic.Subtopics))
	for _, name := range topic.Subtopics {
		slug := catalog.Slugify(name)
		if slug == subtopicID {
			return nil
		}
		slugs = append(slugs, slug)
	}
	return fmt.Errorf("unknown subtopic %q in %s/%s/%s (available: %s)",
		subtopicID, def.ID, phaseID, topicID, strings.Join(slugs, ", "))
}

// progressBar renders a ten-segment completion bar like "[#####-----]".
func progressBar(percent int) string {
	filled := percent / 10
	if filled > 10 {
		filled = 10
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", 10-filled) + "]"
}

// roadmapPercent is the headline completion number for one roadmap.
func roadmapPercent(ctx *Context, def *catalog.RoadmapDefinition) int {
	doc := ctx.Store.Document()
	completed := stats.CompletedSubtopics(doc, def.ID, "", "")
	total := stats.TotalSubtopics(def, "", "")
	return stats.CompletionPercent(completed, total)
}
