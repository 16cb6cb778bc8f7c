package cli

import (
	"github.com/spf13/cobra"
	"github.com/twokey/keybuilder/internal/cli/render"
)

// NewSubmodulesCmd creates the submodules command
func NewSubmodulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submodules",
		Short: "Regenerate, build and publish the protocol submodules",
		Long: `Regenerate the interface bundles, build the submodules and publish them to
the content store. The version manifest pointer is updated for the current branch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			pc, err := app.SyncSubmodules.Run(cmd.Context())
			if renderErr := render.NewPipelineRenderer(cmd.OutOrStdout()).Render(pc); renderErr != nil && err == nil {
				err = renderErr
			}
			return err
		},
	}
}
