package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/trailmark/trailmark/internal/backup"
)

type ExportCmd struct {
	Path string `arg:"" optional:"" help:"Output file; defaults to a timestamped name."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	path := c.Path
	if path == "" {
		path = fmt.Sprintf("trailmark-export-%s.json", time.Now().Format("20060102-150405"))
	}

	if err := ctx.Tracker.Export(path); err != nil {
		return err
	}

	fmt.Printf("Exported progress to: %s\n", path)
	return nil
}

type ImportCmd struct {
	Path string `arg:"" help:"JSON file to import."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	// Snapshot the current document first; an import is destructive.
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	if backupPath, err := mgr.CreateBackup(ctx.Store.Document()); err == nil {
		fmt.Printf("Backed up current progress to: %s\n", backupPath)
	}

	// Imports go through the same migration fallback as live loading, so
	// legacy exports and foreign shapes never fail — worst case the result
	// is a fresh document.
	if err := ctx.Tracker.Import(data); err != nil {
		return err
	}

	fmt.Printf("Imported progress from: %s\n", c.Path)
	return nil
}
