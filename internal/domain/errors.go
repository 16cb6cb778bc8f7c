package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for pipeline operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConfiguration classifies misconfiguration detected before any mutation
	ErrConfiguration = errors.New("configuration error")

	// ErrUnknownTrack is returned when the current branch maps to no release track
	ErrUnknownTrack = errors.New("branch has no release track")

	// ErrNoTagForTrack is returned when a track has no release tag to diff against
	ErrNoTagForTrack = errors.New("no release tag for track")

	// ErrUnsyncedChanges is returned when the working tree is not in sync with the remote
	ErrUnsyncedChanges = errors.New("unsynced local changes")

	// ErrMigrationFailed is returned when the external migration runner fails
	ErrMigrationFailed = errors.New("migration failed")

	// ErrPublishFailed is returned when the content-addressed store rejects a publish
	ErrPublishFailed = errors.New("publish failed")

	// ErrInvalidArtifact is returned when a compiled artifact cannot be decoded
	ErrInvalidArtifact = errors.New("invalid artifact")

	// ErrInvalidAddress is returned when a proxy address is not a hex address
	ErrInvalidAddress = errors.New("invalid address")
)

// UnknownContractError is returned by the contract registry for names it has no loader for.
type UnknownContractError struct {
	Name        string
	Suggestions []string
}

func (e UnknownContractError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown contract %q", e.Name)
	}
	return fmt.Sprintf("unknown contract %q (did you mean: %s?)", e.Name, strings.Join(e.Suggestions, ", "))
}

func (e UnknownContractError) Unwrap() error { return ErrNotFound }

// MissingTagError reports that no release tag exists for a track, so the diff base is undefined.
type MissingTagError struct {
	Track Track
}

func (e MissingTagError) Error() string {
	return fmt.Sprintf("no release tag ending in %q found for track %s", e.Track.TagSuffix(), e.Track)
}

func (e MissingTagError) Is(target error) bool {
	return target == ErrNoTagForTrack || target == ErrConfiguration
}

// ConfigError wraps a configuration problem with the offending key.
type ConfigError struct {
	Key    string
	Reason string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Key, e.Reason)
}

func (e ConfigError) Unwrap() error { return ErrConfiguration }

// MigrationError reports which migration failed on which network.
type MigrationError struct {
	Network string
	Index   int
	Name    string
	Err     error
}

func (e *MigrationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("migration %d (%s) on %s: %v", e.Index, e.Name, e.Network, e.Err)
	}
	return fmt.Sprintf("migration %d on %s: %v", e.Index, e.Network, e.Err)
}

func (e *MigrationError) Unwrap() []error { return []error{ErrMigrationFailed, e.Err} }

// StageError records the pipeline stage at which a run aborted.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
