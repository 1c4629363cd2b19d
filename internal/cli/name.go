package cli

import (
	"fmt"
	"strings"
)

type NameCmd struct {
	Name []string `arg:"" optional:"" help:"Learner name to set; omit to show the current name."`
}

func (c *NameCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if len(c.Name) == 0 {
		name := ctx.Tracker.UserName()
		if name == "" {
			fmt.Println("No learner name set (run 'trailmark name <name>').")
		} else {
			fmt.Printf("Learner name: %s\n", name)
		}
		return nil
	}

	name := strings.TrimSpace(strings.Join(c.Name, " "))
	if name == "" {
		return fmt.Errorf("learner name cannot be empty")
	}

	if err := ctx.Tracker.SetUserName(name); err != nil {
		return err
	}
	fmt.Printf("Learner name set to: %s\n", name)
	return nil
}
