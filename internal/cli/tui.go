package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trailmark/trailmark/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	model := tui.NewModel(ctx.Store, ctx.Catalog, ctx.Tracker)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
