package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/trailmark/trailmark/internal/certificate"
	"github.com/trailmark/trailmark/internal/stats"
)

type CertPhaseCmd struct {
	Roadmap string `arg:"" help:"Roadmap id."`
	Phase   string `arg:"" help:"Phase slug."`
}

func (c *CertPhaseCmd) Run(ctx *Context) error {
	def, err := requireRoadmap(ctx, c.Roadmap)
	if err != nil {
		return err
	}

	if err := ensureUserName(ctx); err != nil {
		return err
	}

	doc := ctx.Store.Document()
	cert := certificate.BuildPhaseCertificate(doc, def, c.Phase, time.Now())
	if cert == nil {
		completed := stats.CompletedSubtopics(doc, def.ID, c.Phase, "")
		total := stats.TotalSubtopics(def, c.Phase, "")
		if total == 0 {
			return fmt.Errorf("phase %q has no countable lessons", c.Phase)
		}
		return fmt.Errorf("phase not complete yet: %d of %d lessons done", completed, total)
	}

	fmt.Println("Phase Certificate")
	fmt.Println(strings.Repeat("=", 40))
	fmt.Printf("Certificate ID:  %s\n", cert.ID)
	fmt.Printf("Awarded to:      %s\n", cert.UserName)
	fmt.Printf("Phase %d:         %s\n", cert.PhaseNumber, cert.PhaseName)
	fmt.Printf("Lessons:         %d/%d\n", cert.LessonsCompleted, cert.TotalLessons)
	fmt.Printf("Avg quiz score:  %d%%\n", cert.AverageQuizScore)
	fmt.Printf("Hours spent:     %.1f\n", cert.HoursSpent)
	fmt.Printf("Date:            %s\n", cert.CompletionDate.Format("January 2, 2006"))
	return nil
}

type CertCourseCmd struct {
	Roadmap string `arg:"" help:"Roadmap id."`
}

func (c *CertCourseCmd) Run(ctx *Context) error {
	def, err := requireRoadmap(ctx, c.Roadmap)
	if err != nil {
		return err
	}

	if err := ensureUserName(ctx); err != nil {
		return err
	}

	doc := ctx.Store.Document()
	cert := certificate.BuildCourseCertificate(doc, def, time.Now())
	if cert == nil {
		completed := stats.CompletedSubtopics(doc, def.ID, "", "")
		total := stats.TotalSubtopics(def, "", "")
		return fmt.Errorf("roadmap not complete yet: %d of %d lessons done", completed, total)
	}

	fmt.Println("Course Certificate")
	fmt.Println(strings.Repeat("=", 40))
	fmt.Printf("Certificate ID:  %s\n", cert.ID)
	fmt.Printf("Awarded to:      %s\n", cert.UserName)
	fmt.Printf("Course:          %s\n", cert.RoadmapTitle)
	fmt.Printf("Lessons:         %d/%d\n", cert.LessonsCompleted, cert.TotalLessons)
	fmt.Printf("Avg quiz score:  %d%%\n", cert.AverageQuizScore)
	fmt.Printf("Hours spent:     %.1f\n", cert.HoursSpent)
	fmt.Printf("Date:            %s\n", cert.CompletionDate.Format("January 2, 2006"))
	fmt.Println()
	fmt.Println("Phases:")
	for _, pc := range cert.PhaseCompletions {
		fmt.Printf("  %d. %-25s completed %s\n",
			pc.PhaseNumber, pc.PhaseName, pc.CompletedAt.Format("Jan 2, 2006"))
	}
	return nil
}

// ensureUserName prompts for and saves the learner name when it has not
// been set yet, so the certificate builders can gate on it.
func ensureUserName(ctx *Context) error {
	if strings.TrimSpace(ctx.Tracker.UserName()) != "" {
		return nil
	}

	var name string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name on the certificate").
				Description("Used for all certificates; stored with your progress.").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a name is required")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("a learner name is required for certificates: %w", err)
	}

	return ctx.Tracker.SetUserName(strings.TrimSpace(name))
}
