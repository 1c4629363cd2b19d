package cli

import (
	"fmt"

	"github.com/trailmark/trailmark/internal/stats"
)

type RoadmapsCmd struct{}

func (c *RoadmapsCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	roadmaps := ctx.Catalog.Roadmaps()
	if len(roadmaps) == 0 {
		fmt.Println("No roadmaps in the catalog")
		return nil
	}

	doc := ctx.Store.Document()
	fmt.Println("Roadmaps:")
	for _, def := range roadmaps {
		percent := roadmapPercent(ctx, def)
		total := stats.TotalSubtopics(def, "", "")
		completed := stats.CompletedSubtopics(doc, def.ID, "", "")

		fmt.Printf("  %-12s %s %3d%%  (%d/%d lessons)  %s\n",
			def.ID, progressBar(percent), percent, completed, total, def.Title)
	}

	return nil
}
