package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"archcanvas/pkg/diagram"
)

// newViewCmd creates the view command for browsing a diagram in the
// terminal.
func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <diagram.json>",
		Short: "Browse a diagram's nodes interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := diagram.ReadFile(args[0])
			if err != nil {
				return err
			}

			model := NewNodeInspectorModel(d)
			if _, err := tea.NewProgram(model).Run(); err != nil {
				return fmt.Errorf("run inspector: %w", err)
			}
			return nil
		},
	}
}
