package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/twokey/keybuilder/internal/domain/config"
)

// BuildArchive snapshots and restores the build output directory as a
// branch-named archive. It assumes a single pipeline run per branch.
type BuildArchive struct {
	archiver    Archiver
	buildDir    string
	archivePath string
	log         *slog.Logger
}

// NewBuildArchive creates a new BuildArchive use case
func NewBuildArchive(cfg *config.RuntimeConfig, archiver Archiver, log *slog.Logger) *BuildArchive {
	paths := cfg.Project.Paths
	return &BuildArchive{
		archiver:    archiver,
		buildDir:    cfg.Path(paths.BuildDir),
		archivePath: cfg.BranchFile(paths.ArchiveDir, paths.ArchiveFile),
		log:         log.With("component", "BuildArchive"),
	}
}

// Path returns the archive file for the current branch.
func (uc *BuildArchive) Path() string {
	return uc.archivePath
}

// Exists reports whether an archive exists for the current branch.
func (uc *BuildArchive) Exists() bool {
	_, err := os.Stat(uc.archivePath)
	return err == nil
}

// HasBuild reports whether there is build output to archive.
func (uc *BuildArchive) HasBuild() bool {
	_, err := os.Stat(uc.buildDir)
	return err == nil
}

// Archive compresses the build directory, replacing any previous archive.
func (uc *BuildArchive) Archive(ctx context.Context) error {
	if _, err := os.Stat(uc.buildDir); err != nil {
		return fmt.Errorf("failed to archive build: %w", err)
	}
	uc.log.Debug("archiving build", "dir", uc.buildDir, "archive", uc.archivePath)
	if err := uc.archiver.Pack(ctx, uc.buildDir, uc.archivePath); err != nil {
		return fmt.Errorf("failed to archive build: %w", err)
	}
	return nil
}

// Restore replaces the build directory with the archived snapshot. The
// directory is cleared first so files absent from the archive don't survive.
// Without an archive this is a no-op.
func (uc *BuildArchive) Restore(ctx context.Context) error {
	if !uc.Exists() {
		uc.log.Debug("no archive to restore", "archive", uc.archivePath)
		return nil
	}
	if err := os.RemoveAll(uc.buildDir); err != nil {
		return fmt.Errorf("failed to clear build directory: %w", err)
	}
	uc.log.Debug("restoring build", "dir", uc.buildDir, "archive", uc.archivePath)
	if err := uc.archiver.Unpack(ctx, uc.archivePath, uc.buildDir); err != nil {
		return fmt.Errorf("failed to restore build: %w", err)
	}
	return nil
}

// Discard removes both the build directory and its archive (hard reset).
func (uc *BuildArchive) Discard(_ context.Context) error {
	if err := os.RemoveAll(uc.buildDir); err != nil {
		return fmt.Errorf("failed to remove build directory: %w", err)
	}
	if err := os.Remove(uc.archivePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove build archive: %w", err)
	}
	return nil
}
