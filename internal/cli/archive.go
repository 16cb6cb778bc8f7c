package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/twokey/keybuilder/internal/cli/render"
)

// NewArchiveCmd creates the archive command
func NewArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Snapshot the build output into the branch archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if !app.BuildArchive.HasBuild() {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatWarning("No build output to archive"))
				return nil
			}
			if err := app.BuildArchive.Archive(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("Archived build to "+app.BuildArchive.Path()))
			return nil
		},
	}
}

// NewExtractCmd creates the extract command
func NewExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Replace the build output with the branch archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if !app.BuildArchive.Exists() {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatWarning("No archive at "+app.BuildArchive.Path()))
				return nil
			}
			if err := app.BuildArchive.Restore(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("Restored build from "+app.BuildArchive.Path()))
			return nil
		},
	}
}
