package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/usecase"
)

// ChangeSetRenderer renders change sets
type ChangeSetRenderer struct {
	out io.Writer
}

// NewChangeSetRenderer creates a new change set renderer
func NewChangeSetRenderer(out io.Writer) *ChangeSetRenderer {
	return &ChangeSetRenderer{out: out}
}

// RenderAnalysis renders the outcome of a diff against the last release
func (r *ChangeSetRenderer) RenderAnalysis(result *usecase.AnalyzeChangesResult) error {
	fmt.Fprintf(r.out, "Track:    %s\n", color.New(color.Bold).Sprint(result.Track))
	fmt.Fprintf(r.out, "Base tag: %s\n", color.CyanString(result.BaseTag))
	fmt.Fprintf(r.out, "Changed:  %d files\n\n", len(result.ChangedFiles))

	if err := r.RenderChangeSet(result.ChangeSet); err != nil {
		return err
	}
	if len(result.NeverDeployed) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, FormatWarning("Skipped, never deployed: "+strings.Join(result.NeverDeployed, ", ")))
	}
	return nil
}

// RenderChangeSet renders which groups are flagged for redeployment
func (r *ChangeSetRenderer) RenderChangeSet(cs domain.ChangeSet) error {
	if cs.IsEmpty() {
		fmt.Fprintln(r.out, "Nothing to redeploy.")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"GROUP", "CHANGED", "CONTRACTS"})
	t.AppendRow(table.Row{title(string(domain.GroupSingletons)), yesNo(len(cs.SingletonsChanged) > 0), strings.Join(cs.SingletonsChanged, ", ")})
	t.AppendRow(table.Row{title(string(domain.GroupTokenSell)), yesNo(cs.TokenSellChanged), ""})
	t.AppendRow(table.Row{title(string(domain.GroupDonation)), yesNo(cs.DonationChanged), ""})
	t.AppendRow(table.Row{title(string(domain.GroupCPC)), yesNo(cs.CPCChanged), ""})
	t.AppendRow(table.Row{title(string(domain.GroupCPCNoRewards)), yesNo(cs.CPCNoRewardsChanged), ""})
	fmt.Fprintln(r.out, t.Render())
	return nil
}
