package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/trailmark/trailmark/internal/backup"
)

type ResetCmd struct {
	Roadmap string `arg:"" optional:"" help:"Roadmap to reset; omit to reset everything."`
	Force   bool   `help:"Skip the confirmation prompt."`
}

func (c *ResetCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	what := "ALL progress"
	if c.Roadmap != "" {
		what = fmt.Sprintf("progress for roadmap %q", c.Roadmap)
	}

	if !c.Force {
		fmt.Printf("This will discard %s. Type 'yes' to continue: ", what)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	if backupPath, err := mgr.CreateBackup(ctx.Store.Document()); err == nil {
		fmt.Printf("Backed up current progress to: %s\n", backupPath)
	}

	if c.Roadmap != "" {
		if err := ctx.Tracker.ResetRoadmap(c.Roadmap); err != nil {
			return err
		}
	} else {
		if err := ctx.Tracker.ResetAll(); err != nil {
			return err
		}
	}

	fmt.Printf("Reset %s.\n", what)
	return nil
}
