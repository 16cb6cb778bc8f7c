package render

import "github.com/twokey/keybuilder/internal/domain"

// Renderer renders the result of a command
type Renderer[T any] interface {
	Render(result T) error
}

var _ Renderer[domain.PipelineContext] = (*PipelineRenderer)(nil)
