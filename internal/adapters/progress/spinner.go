package progress

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/twokey/keybuilder/internal/usecase"
)

// SpinnerSink renders pipeline progress with a spinner. Each stage change
// prints a completed line for the previous stage.
type SpinnerSink struct {
	spinner    *spinner.Spinner
	stage      string
	stageStart time.Time
}

// NewSpinnerSink creates a new spinner-based progress sink
func NewSpinnerSink() *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.HideCursor = false
	return &SpinnerSink{spinner: s}
}

// OnProgress handles progress events
func (p *SpinnerSink) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	if event.Stage != "" && event.Stage != p.stage && event.Total > 0 && !event.Spinner {
		p.completeStage()
		p.stage = event.Stage
		p.stageStart = time.Now()
		p.spinner.Suffix = fmt.Sprintf(" [%d/%d] %s", event.Current, event.Total, color.New(color.FgYellow).Sprint(event.Stage))
		if !p.spinner.Active() {
			p.spinner.Start()
		}
		return
	}
	if event.Spinner {
		p.spinner.Suffix = " " + event.Message
		if !p.spinner.Active() {
			p.spinner.Start()
		}
	}
}

// Info prints an info message
func (p *SpinnerSink) Info(message string) {
	p.pause(func() { color.New(color.FgCyan).Fprintln(os.Stderr, message) })
}

// Error prints an error message and stops tracking the current stage
func (p *SpinnerSink) Error(message string) {
	p.spinner.Stop()
	p.stage = ""
	color.New(color.FgRed).Fprintln(os.Stderr, "✗ "+message)
}

// Done stops the spinner, completing the current stage
func (p *SpinnerSink) Done() {
	p.completeStage()
	p.spinner.Stop()
}

func (p *SpinnerSink) completeStage() {
	if p.stage == "" {
		return
	}
	d := time.Since(p.stageStart).Round(time.Millisecond)
	p.pause(func() {
		fmt.Fprintf(os.Stderr, "%s %s (%s)\n", color.GreenString("✓"), p.stage, d)
	})
	p.stage = ""
}

func (p *SpinnerSink) pause(fn func()) {
	wasActive := p.spinner.Active()
	if wasActive {
		p.spinner.Stop()
	}
	fn()
	if wasActive {
		p.spinner.Start()
	}
}

// Ensure SpinnerSink implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerSink)(nil)
