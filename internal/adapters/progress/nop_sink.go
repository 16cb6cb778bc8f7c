package progress

import (
	"context"

	"github.com/twokey/keybuilder/internal/usecase"
)

// NopSink discards progress, for non-interactive runs
type NopSink struct{}

// NewNopSink creates a new no-op progress sink
func NewNopSink() *NopSink {
	return &NopSink{}
}

// OnProgress does nothing
func (n *NopSink) OnProgress(context.Context, usecase.ProgressEvent) {}

// Info does nothing
func (n *NopSink) Info(string) {}

// Error does nothing
func (n *NopSink) Error(string) {}

// Ensure NopSink implements ProgressSink
var _ usecase.ProgressSink = (*NopSink)(nil)
