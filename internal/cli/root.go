package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/twokey/keybuilder/internal/adapters/progress"
	"github.com/twokey/keybuilder/internal/app"
	"github.com/twokey/keybuilder/internal/cli/render"
	"github.com/twokey/keybuilder/internal/config"
	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command. Without a subcommand it runs the full deployment.
func NewRootCmd() *cobra.Command {
	var (
		flags domain.RunFlags
		yes   bool
	)

	rootCmd := &cobra.Command{
		Use:   "keybuilder [networks]",
		Short: "Contract deployment and release pipeline",
		Long: `keybuilder deploys the protocol contracts to one or more networks,
regenerates the interface bundles, publishes them to the content store,
bumps the package version and pushes the release.

Networks are comma separated, e.g. "public.test.k8s,private.test.k8s".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			var sink usecase.ProgressSink = progress.NewNopSink()
			if !v.GetBool("non_interactive") {
				spinner := progress.NewSpinnerSink()
				sink = spinner
				cmd.PersistentPostRun = func(*cobra.Command, []string) { spinner.Done() }
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(*cobra.Command, []string) { cancel() }
			}
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}

			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployRelease.Run(cmd.Context(), usecase.DeployReleaseParams{
				Networks:    args,
				Flags:       flags,
				SkipConfirm: yes,
			})
			renderer := render.NewPipelineRenderer(cmd.OutOrStdout())
			if result != nil && !result.Aborted {
				_ = renderer.Render(result.Context)
			}
			if err != nil {
				return err
			}
			if result.Aborted {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatWarning("Deployment aborted"))
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable prompts and the progress spinner")
	rootCmd.PersistentFlags().String("branch", "", "Branch to deploy from (defaults to the checked out branch)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Abort the run after this long (0 disables the deadline)")

	rootCmd.Flags().BoolVar(&flags.Reset, "reset", false, "Run every migration from the first one")
	rootCmd.Flags().BoolVar(&flags.Update, "update", false, "Redeploy the contract groups changed since the last release")
	rootCmd.Flags().BoolVar(&flags.ProtocolOnly, "protocol-only", false, "Skip contract deployment, only regenerate and publish")
	rootCmd.Flags().BoolVar(&flags.CPCNoFees, "cpc-no-fees-deploy", false, "Deploy the budget campaign payment handlers")
	rootCmd.Flags().BoolVar(&flags.DeployFromFile, "deploy-from-file", false, "Read the contracts to redeploy from the selection file")
	rootCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "pipeline",
		Title: "Pipeline Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "build",
		Title: "Build Commands",
	})

	for _, c := range []*cobra.Command{NewMigrateCmd(), NewUpgradeCmd(), NewSubmodulesCmd()} {
		c.GroupID = "pipeline"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{NewGenerateCmd(), NewArchiveCmd(), NewExtractCmd(), NewDiffCmd(), NewSelectionCmd()} {
		c.GroupID = "build"
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
