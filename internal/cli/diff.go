package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/twokey/keybuilder/internal/cli/render"
	"github.com/twokey/keybuilder/internal/usecase"
)

// NewDiffCmd creates the diff command
func NewDiffCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show which contract groups changed since the last release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.AnalyzeChanges.Run(cmd.Context(), usecase.AnalyzeChangesParams{})
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result.ChangeSet)
			}
			return render.NewChangeSetRenderer(cmd.OutOrStdout()).RenderAnalysis(result)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the change set as JSON")

	return cmd
}
