package cli

import (
	"github.com/spf13/cobra"
	"github.com/twokey/keybuilder/internal/cli/render"
	"github.com/twokey/keybuilder/internal/usecase"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	var dist bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the interface bundles from the compiled artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.GenerateBundles.Run(cmd.Context(), usecase.GenerateBundlesParams{
				CopyToDist: dist || app.Config.ForceDeployment,
			})
			if err != nil {
				return err
			}

			return render.NewPipelineRenderer(cmd.OutOrStdout()).RenderBundles(result)
		},
	}

	cmd.Flags().BoolVar(&dist, "dist", false, "Also write the deployed contracts record to the dist directory")

	return cmd
}
