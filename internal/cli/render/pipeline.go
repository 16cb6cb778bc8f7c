package render

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/usecase"
)

// PipelineRenderer renders pipeline outcomes
type PipelineRenderer struct {
	out io.Writer
}

// NewPipelineRenderer creates a new pipeline renderer
func NewPipelineRenderer(out io.Writer) *PipelineRenderer {
	return &PipelineRenderer{out: out}
}

// Render renders the final pipeline context
func (r *PipelineRenderer) Render(pc domain.PipelineContext) error {
	if len(pc.Migrations.Steps) > 0 {
		if err := r.RenderPlan(pc.Migrations); err != nil {
			return err
		}
		fmt.Fprintln(r.out)
	}
	if len(pc.DeployedTo) > 0 {
		fmt.Fprintf(r.out, "Deployed to:       %s\n", deployedTo(pc.DeployedTo))
	}
	if pc.Bundles != nil {
		r.renderHashes(pc.Bundles.NonSingletonsHash, pc.Bundles.SingletonsHash)
	}
	if pc.ManifestPointer != "" {
		fmt.Fprintf(r.out, "Manifest:          %s\n", color.CyanString(pc.ManifestPointer))
	}
	if pc.ReleaseVersion != "" {
		fmt.Fprintf(r.out, "Released:          %s\n", color.GreenString(domain.ReleaseTag(pc.ReleaseVersion)))
	}
	if len(pc.Completed) > 0 {
		fmt.Fprintln(r.out, FormatSuccess("Completed "+strings.Join(pc.Completed, " → ")))
	}
	return nil
}

// RenderPlan renders migration steps with their status
func (r *PipelineRenderer) RenderPlan(plan domain.MigrationPlan) error {
	t := newTable()
	t.AppendHeader(table.Row{"NETWORK", "MIGRATION", "KIND", "CONTRACT", "STATUS"})
	for _, s := range plan.Steps {
		t.AppendRow(table.Row{s.Network, strconv.Itoa(s.Index), string(s.Kind), s.Contract, status(s.Status)})
	}
	fmt.Fprintln(r.out, t.Render())
	if failed, ok := plan.Failed(); ok {
		fmt.Fprintln(r.out, FormatError(failed.Error))
	}
	return nil
}

// RenderBundles renders a generation result
func (r *PipelineRenderer) RenderBundles(result *usecase.GenerateBundlesResult) error {
	if result.Skipped {
		fmt.Fprintln(r.out, FormatWarning("No build output, nothing generated"))
		return nil
	}
	t := newTable()
	t.AppendHeader(table.Row{"MODULE", "CONTRACTS"})
	for _, name := range result.Set.ModuleNames() {
		t.AppendRow(table.Row{name, strconv.Itoa(len(result.Set.Modules[name].Contracts))})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)
	r.renderHashes(result.Set.NonSingletonsHash, result.Set.SingletonsHash)
	return nil
}

func (r *PipelineRenderer) renderHashes(nonSingletons, singletons string) {
	fmt.Fprintf(r.out, "NonSingletonsHash: %s\n", color.New(color.Bold).Sprint(nonSingletons))
	fmt.Fprintf(r.out, "SingletonsHash:    %s\n", color.New(color.Bold).Sprint(singletons))
}

func status(s domain.MigrationStatus) string {
	switch s {
	case domain.MigrationSucceeded:
		return color.GreenString("✓ " + string(s))
	case domain.MigrationFailed:
		return color.RedString("✗ " + string(s))
	case domain.MigrationRunning:
		return color.YellowString("● " + string(s))
	}
	return color.New(color.Faint).Sprint("○ " + string(s))
}

// deployedTo lists networks by name with their network id, when known.
func deployedTo(networks map[string]string) string {
	names := slices.Sorted(maps.Keys(networks))
	for i, name := range names {
		if id := networks[name]; id != "" {
			names[i] = fmt.Sprintf("%s (%s)", name, id)
		}
	}
	return strings.Join(names, ", ")
}
