package cli

import (
	"fmt"

	"github.com/trailmark/trailmark/internal/catalog"
	"github.com/trailmark/trailmark/internal/stats"
)

type DoneCmd struct {
	Roadmap  string `arg:"" help:"Roadmap id."`
	Phase    string `arg:"" help:"Phase slug."`
	Topic    string `arg:"" help:"Topic slug."`
	Subtopic string `arg:"" help:"Subtopic slug."`
	Minutes  int    `help:"Estimated minutes to credit on first completion." default:"0"`
}

func (c *DoneCmd) Run(ctx *Context) error {
	def, err := requireRoadmap(ctx, c.Roadmap)
	if err != nil {
		return err
	}

	if catalog.IsCheatSheet(c.Subtopic) {
		fmt.Println("Cheat sheets are reference material and are not tracked.")
		return nil
	}
	if err := requireLesson(def, c.Phase, c.Topic, c.Subtopic); err != nil {
		return err
	}

	if err := ctx.Tracker.MarkComplete(c.Roadmap, c.Phase, c.Topic, c.Subtopic, c.Minutes); err != nil {
		return err
	}

	doc := ctx.Store.Document()
	completed := stats.CompletedSubtopics(doc, def.ID, "", "")
	total := stats.TotalSubtopics(def, "", "")
	fmt.Printf("Marked %s/%s/%s complete (%d/%d lessons, %d%%)\n",
		c.Phase, c.Topic, c.Subtopic,
		completed, total, stats.CompletionPercent(completed, total))

	return nil
}

type UndoCmd struct {
	Roadmap  string `arg:"" help:"Roadmap id."`
	Phase    string `arg:"" help:"Phase slug."`
	Topic    string `arg:"" help:"Topic slug."`
	Subtopic string `arg:"" help:"Subtopic slug."`
}

func (c *UndoCmd) Run(ctx *Context) error {
	def, err := requireRoadmap(ctx, c.Roadmap)
	if err != nil {
		return err
	}
	if err := requireLesson(def, c.Phase, c.Topic, c.Subtopic); err != nil {
		return err
	}

	if err := ctx.Tracker.MarkIncomplete(c.Roadmap, c.Phase, c.Topic, c.Subtopic); err != nil {
		return err
	}

	fmt.Printf("Marked %s/%s/%s incomplete (credited time and quiz scores are kept)\n",
		c.Phase, c.Topic, c.Subtopic)
	return nil
}
