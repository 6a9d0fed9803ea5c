package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Options configures RunChecklistTUI.
type Options struct {
	// Date is the day shown first.
	Date string
	// Today returns the current date key; "t" jumps to it.
	Today func() string
}

// RunChecklistTUI starts the interactive checklist
func RunChecklistTUI(ctx context.Context, session Session, opts Options) error {
	model := NewChecklistModel(ctx, session, opts.Date, opts.Today)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()

	// Handle exit messages after TUI closes
	if err != nil {
		return err
	}

	if failures := session.Failures(); len(failures) > 0 {
		fmt.Printf("❌ %d change(s) could not be saved and were reverted.\n", len(failures))
		for _, f := range failures {
			fmt.Printf("   %s: %v\n", f.Kind, f.Err)
		}
	}
	return nil
}
