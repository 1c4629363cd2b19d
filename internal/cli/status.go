package cli

import (
	"fmt"
	"time"

	"github.com/trailmark/trailmark/internal/schedule"
	"github.com/trailmark/trailmark/internal/stats"
)

type StatusCmd struct {
	Roadmap string `arg:"" help:"Roadmap id."`
}

func (c *StatusCmd) Run(ctx *Context) error {
	def, err := requireRoadmap(ctx, c.Roadmap)
	if err != nil {
		return err
	}

	doc := ctx.Store.Document()
	percent := roadmapPercent(ctx, def)

	fmt.Printf("%s\n\n", def.Title)
	fmt.Printf("Overall: %s %d%%  (%d/%d lessons)\n",
		progressBar(percent), percent,
		stats.CompletedSubtopics(doc, def.ID, "", ""),
		stats.TotalSubtopics(def, "", ""))

	for _, phase := range def.Phases {
		pc := stats.CompletedSubtopics(doc, def.ID, phase.Slug, "")
		pt := stats.TotalSubtopics(def, phase.Slug, "")
		pp := stats.CompletionPercent(pc, pt)
		fmt.Printf("  %-28s %s %3d%%  (%d/%d)\n", phase.Title, progressBar(pp), pp, pc, pt)
	}

	fmt.Println()
	if avg := stats.AverageQuizScore(doc, def.ID, ""); avg > 0 {
		fmt.Printf("Average quiz score: %d%%\n", avg)
	}
	if hours := stats.TimeSpentHours(doc, def.ID); hours > 0 {
		fmt.Printf("Time spent: %.1f hours\n", hours)
	}

	if target := stats.ResumeTarget(doc, def.ID); target != nil {
		fmt.Printf("Resume at: %s / %s / %s\n", target.Phase, target.Topic, target.Subtopic)
	}

	if projected := schedule.ProjectCompletion(doc, def, "", time.Now()); projected != nil {
		fmt.Printf("Projected completion: %s\n", projected.Format("Mon, Jan 2 2006"))
	}

	if stats.CertificateEligible(doc, def) {
		fmt.Println("Course certificate: eligible (run 'trailmark cert course " + def.ID + "')")
	}

	return nil
}
