package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/trailmark/trailmark/internal/catalog"
	"github.com/trailmark/trailmark/internal/cli"
	"github.com/trailmark/trailmark/internal/errors"
	"github.com/trailmark/trailmark/internal/logger"
	"github.com/trailmark/trailmark/internal/progress"
	"github.com/trailmark/trailmark/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Store file path." type:"path" default:"~/.config/trailmark/progress.json"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize trailmark storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive browser." default:"1"`
	Roadmaps cli.RoadmapsCmd `cmd:"" help:"List roadmaps with completion."`
	Status   cli.StatusCmd   `cmd:"" help:"Show progress statistics for a roadmap."`
	Done     cli.DoneCmd     `cmd:"" help:"Mark a lesson complete."`
	Undo     cli.UndoCmd     `cmd:"" help:"Mark a lesson incomplete."`
	Quiz     cli.QuizCmd     `cmd:"" help:"Record a quiz score."`
	Schedule struct {
		Set   cli.ScheduleSetCmd   `cmd:"" help:"Configure a study schedule."`
		Show  cli.ScheduleShowCmd  `cmd:"" help:"Show the schedule and projected completion."`
		Clear cli.ScheduleClearCmd `cmd:"" help:"Remove the schedule."`
	} `cmd:"" help:"Manage study schedules."`
	Cert struct {
		Phase  cli.CertPhaseCmd  `cmd:"" help:"Build a phase completion certificate."`
		Course cli.CertCourseCmd `cmd:"" help:"Build a course completion certificate."`
	} `cmd:"" help:"Build completion certificates."`
	Name   cli.NameCmd   `cmd:"" help:"Show or set the learner name."`
	Export cli.ExportCmd `cmd:"" help:"Export progress as JSON."`
	Import cli.ImportCmd `cmd:"" help:"Import progress from a JSON export."`
	Reset  cli.ResetCmd  `cmd:"" help:"Reset all or one roadmap's progress."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run diagnostics."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("trailmark"),
		kong.Description("Curriculum roadmap progress tracker"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.3.0"},
	)

	configDir := filepath.Dir(CLI.Config)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		errors.Fatal(err)
	}
	// User-supplied roadmap definitions extend the built-ins
	if err := cat.LoadDir(filepath.Join(configDir, "roadmaps")); err != nil {
		logger.Warn("skipping user roadmaps", "error", err)
	}

	// Determine storage backend based on extension
	var store storage.Provider
	if strings.HasSuffix(CLI.Config, ".db") {
		store = storage.NewSQLiteStore(CLI.Config)
	} else {
		store = storage.NewJSONStore(CLI.Config)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:   store,
		Catalog: cat,
		Tracker: progress.NewTracker(store),
		Debug:   CLI.Debug,
	}

	if err := ctx.Run(appCtx); err != nil {
		errors.Fatal(err)
	}
}
