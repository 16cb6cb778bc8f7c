package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/domain/config"
)

// PublishVersionsParams contains parameters for publishing submodules
type PublishVersionsParams struct {
	// Hash is the NonSingletonsHash the published submodules belong to
	Hash string
	// Build runs the submodule build command first
	Build bool
}

// PublishVersionsResult contains the outcome of a publish
type PublishVersionsResult struct {
	Hash            string
	PreviousPointer string
	Pointer         string
	// Published maps submodule name to its content pointer
	Published map[string]string
	Manifest  domain.VersionManifest
}

// PublishVersions publishes submodule bundles to the content store and appends
// them to the version manifest under the current build hash.
type PublishVersions struct {
	manifestName string
	submodules   SubmoduleRepository
	builder      SubmoduleBuilder
	store        ContentStore
	pointers     ManifestPointerStore
	progress     ProgressSink
	log          *slog.Logger
}

// NewPublishVersions creates a new PublishVersions use case
func NewPublishVersions(
	cfg *config.RuntimeConfig,
	submodules SubmoduleRepository,
	builder SubmoduleBuilder,
	store ContentStore,
	pointers ManifestPointerStore,
	progress ProgressSink,
	log *slog.Logger,
) *PublishVersions {
	name := cfg.Project.Publish.ManifestName
	if name == "" {
		name = domain.DefaultManifestName
	}
	if progress == nil {
		progress = NopProgress{}
	}
	return &PublishVersions{
		manifestName: name,
		submodules:   submodules,
		builder:      builder,
		store:        store,
		pointers:     pointers,
		progress:     progress,
		log:          log.With("component", "PublishVersions"),
	}
}

// Run executes the publish
func (uc *PublishVersions) Run(ctx context.Context, params PublishVersionsParams) (*PublishVersionsResult, error) {
	if params.Hash == "" {
		return nil, domain.ConfigError{Key: "hash", Reason: "no bundle hash to publish under"}
	}

	if params.Build {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: "submodules", Message: "Building submodules", Spinner: true})
		if err := uc.builder.Build(ctx); err != nil {
			return nil, fmt.Errorf("failed to build submodules: %w", err)
		}
	}

	pointers, err := uc.pointers.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest pointer: %w", err)
	}
	previous := pointers[uc.manifestName]

	manifest, err := uc.fetchManifest(ctx, previous)
	if err != nil {
		return nil, err
	}

	submodules, err := uc.submodules.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list submodules: %w", err)
	}

	published := make(map[string]string, len(submodules))
	for i, sub := range submodules {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   "publish",
			Current: i + 1,
			Total:   len(submodules),
			Message: fmt.Sprintf("Publishing %s", sub.Name),
			Spinner: true,
		})
		pointer, err := uc.store.Put(ctx, sub.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: submodule %s: %w", domain.ErrPublishFailed, sub.Name, err)
		}
		uc.log.Debug("published submodule", "name", sub.Name, "pointer", pointer)
		published[sub.Name] = pointer
	}

	manifest = manifest.WithEntries(params.Hash, published)
	data, err := manifest.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode version manifest: %w", err)
	}
	pointer, err := uc.store.Put(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: manifest: %w", domain.ErrPublishFailed, err)
	}

	pointers = domain.ManifestPointers{uc.manifestName: pointer}
	if err := uc.pointers.Save(ctx, pointers); err != nil {
		return nil, fmt.Errorf("failed to save manifest pointer: %w", err)
	}

	uc.log.Info("published version manifest", "hash", params.Hash, "pointer", pointer, "submodules", len(published))
	return &PublishVersionsResult{
		Hash:            params.Hash,
		PreviousPointer: previous,
		Pointer:         pointer,
		Published:       published,
		Manifest:        manifest,
	}, nil
}

func (uc *PublishVersions) fetchManifest(ctx context.Context, pointer string) (domain.VersionManifest, error) {
	if pointer == "" {
		return domain.VersionManifest{}, nil
	}
	data, err := uc.store.Get(ctx, pointer)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("previous manifest %s is not in the content store: %w", pointer, err)
		}
		return nil, fmt.Errorf("failed to fetch manifest %s: %w", pointer, err)
	}
	return domain.ParseVersionManifest(data)
}
