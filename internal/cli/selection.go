package cli

import (
	"github.com/spf13/cobra"
	"github.com/twokey/keybuilder/internal/cli/render"
)

// NewSelectionCmd creates the selection command
func NewSelectionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selection",
		Short: "Show the manual deployment selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			selection, err := app.Selection.Load(cmd.Context())
			if err != nil {
				return err
			}
			return render.NewChangeSetRenderer(cmd.OutOrStdout()).RenderChangeSet(*selection)
		},
	}
}
