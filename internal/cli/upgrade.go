package cli

import (
	"github.com/spf13/cobra"
	"github.com/twokey/keybuilder/internal/cli/render"
	"github.com/twokey/keybuilder/internal/usecase"
)

// NewUpgradeCmd creates the upgrade command
func NewUpgradeCmd() *cobra.Command {
	var (
		fromFile        bool
		paymentHandlers bool
		skipCompile     bool
	)

	cmd := &cobra.Command{
		Use:   "upgrade <networks>",
		Short: "Redeploy the contract groups changed since the last release",
		Long: `Compile, diff the contract sources against the last release tag of the
current track and run the matching migrations on every network.

With --deploy-from-file the groups come from the selection file instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.UpgradeContracts.Run(cmd.Context(), usecase.UpgradeContractsParams{
				Networks:        app.Config.Networks(splitArgs(args)),
				FromFile:        fromFile,
				PaymentHandlers: paymentHandlers,
				SkipCompile:     skipCompile,
			})
			if result != nil {
				out := cmd.OutOrStdout()
				_ = render.NewChangeSetRenderer(out).RenderChangeSet(result.ChangeSet)
				if len(result.Plan.Steps) > 0 {
					_ = render.NewPipelineRenderer(out).RenderPlan(result.Plan)
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&fromFile, "deploy-from-file", false, "Read the contracts to redeploy from the selection file")
	cmd.Flags().BoolVar(&paymentHandlers, "cpc-no-fees-deploy", false, "Deploy the budget campaign payment handlers")
	cmd.Flags().BoolVar(&skipCompile, "skip-compile", false, "Use the artifacts already on disk")

	return cmd
}
