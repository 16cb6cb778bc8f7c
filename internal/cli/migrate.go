package cli

import (
	"github.com/spf13/cobra"
	"github.com/twokey/keybuilder/internal/cli/render"
	"github.com/twokey/keybuilder/internal/usecase"
)

// NewMigrateCmd creates the migrate command
func NewMigrateCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "migrate <networks>",
		Short: "Run pending migrations and regenerate the bundles",
		Long: `Run the numbered migrations each network has not run yet, then
regenerate the interface bundles. Nothing is committed or published.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			pc, err := app.MigrateNetworks.Run(cmd.Context(), usecase.MigrateNetworksParams{
				Networks: args,
				Reset:    reset,
			})
			renderer := render.NewPipelineRenderer(cmd.OutOrStdout())
			if renderErr := renderer.Render(pc); renderErr != nil && err == nil {
				err = renderErr
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Run every migration from the first one")

	return cmd
}
