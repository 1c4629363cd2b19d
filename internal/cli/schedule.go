package cli

import (
	"fmt"
	"time"

	"github.com/trailmark/trailmark/internal/schedule"
	"github.com/trailmark/trailmark/internal/stats"
)

type ScheduleSetCmd struct {
	Roadmap     string `arg:"" help:"Roadmap id."`
	DaysPerWeek int    `help:"Study days per week (1-7)." required:""`
	Start       string `help:"Start date (YYYY-MM-DD), defaults to today."`
}

func (c *ScheduleSetCmd) Run(ctx *Context) error {
	if _, err := requireRoadmap(ctx, c.Roadmap); err != nil {
		return err
	}

	start := c.Start
	if start == "" {
		start = time.Now().Format("2006-01-02")
	}

	if err := ctx.Tracker.SetSchedule(c.Roadmap, start, c.DaysPerWeek); err != nil {
		return err
	}

	fmt.Printf("Schedule set: %d study days per week starting %s\n", c.DaysPerWeek, start)
	return nil
}

type ScheduleShowCmd struct {
	Roadmap string `arg:"" help:"Roadmap id."`
	Phase   string `help:"Project through this phase only."`
}

func (c *ScheduleShowCmd) Run(ctx *Context) error {
	def, err := requireRoadmap(ctx, c.Roadmap)
	if err != nil {
		return err
	}

	doc := ctx.Store.Document()
	rp, ok := doc.Roadmap(c.Roadmap)
	if !ok || rp.Schedule == nil {
		fmt.Println("No schedule configured (run 'trailmark schedule set').")
		return nil
	}

	fmt.Printf("Schedule: %d study days per week since %s\n",
		rp.Schedule.StudyDaysPerWeek, rp.Schedule.StartDate)

	completed, total, ok := stats.TopicCounts(doc, def, c.Phase)
	if !ok {
		return fmt.Errorf("unknown phase %q", c.Phase)
	}
	fmt.Printf("Topics completed: %d/%d\n", completed, total)

	projected := schedule.ProjectCompletion(doc, def, c.Phase, time.Now())
	if projected == nil {
		fmt.Println("Nothing remaining in scope — already complete.")
		return nil
	}

	fmt.Printf("Projected completion: %s\n", projected.Format("Mon, Jan 2 2006"))
	return nil
}

type ScheduleClearCmd struct {
	Roadmap string `arg:"" help:"Roadmap id."`
}

func (c *ScheduleClearCmd) Run(ctx *Context) error {
	if _, err := requireRoadmap(ctx, c.Roadmap); err != nil {
		return err
	}

	if err := ctx.Tracker.ClearSchedule(c.Roadmap); err != nil {
		return err
	}
	fmt.Println("Schedule cleared.")
	return nil
}
