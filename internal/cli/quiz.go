package cli

import (
	"fmt"

	"github.com/trailmark/trailmark/internal/catalog"
)

type QuizCmd struct {
	Roadmap  string `arg:"" help:"Roadmap id."`
	Phase    string `arg:"" help:"Phase slug."`
	Topic    string `arg:"" help:"Topic slug."`
	Subtopic string `arg:"" help:"Subtopic slug."`
	Score    int    `arg:"" help:"Quiz score (0-100)."`
}

func (c *QuizCmd) Run(ctx *Context) error {
	def, err := requireRoadmap(ctx, c.Roadmap)
	if err != nil {
		return err
	}

	if catalog.IsCheatSheet(c.Subtopic) {
		fmt.Println("Cheat sheets have no quizzes and are not tracked.")
		return nil
	}
	if err := requireLesson(def, c.Phase, c.Topic, c.Subtopic); err != nil {
		return err
	}

	doc := ctx.Store.Document()
	prev, hadPrev := doc.Subtopic(c.Roadmap, c.Phase, c.Topic, c.Subtopic)

	if err := ctx.Tracker.RecordQuizScore(c.Roadmap, c.Phase, c.Topic, c.Subtopic, c.Score); err != nil {
		return err
	}

	if hadPrev && prev.QuizScore != nil && *prev.QuizScore >= c.Score {
		fmt.Printf("Recorded attempt: %d%% (best score stays at %d%%)\n", c.Score, *prev.QuizScore)
	} else {
		fmt.Printf("Recorded new best score: %d%%\n", c.Score)
	}

	return nil
}
