package domain

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ReleaseMode selects how the protocol package version is bumped.
type ReleaseMode struct {
	Production bool
	Reset      bool
	Branch     string
}

// NextReleaseVersion computes the package version that follows current.
// Production releases bump the patch and drop any prerelease. Other
// releases bump the patch (or the minor, resetting the patch, on a hard
// reset) and carry the branch as prerelease.
func NextReleaseVersion(current string, mode ReleaseMode) (string, error) {
	v, err := semver.NewVersion(current)
	if err != nil {
		return "", fmt.Errorf("invalid package version %q: %w", current, err)
	}
	base, err := v.SetPrerelease("")
	if err != nil {
		return "", err
	}
	if mode.Production {
		if v.Prerelease() != "" {
			return base.String(), nil
		}
		return v.IncPatch().String(), nil
	}

	var next semver.Version
	if mode.Reset {
		next = base.IncMinor()
	} else {
		next = base.IncPatch()
	}
	if mode.Branch == "" {
		return next.String(), nil
	}
	withBranch, err := next.SetPrerelease(mode.Branch)
	if err != nil {
		return "", fmt.Errorf("invalid prerelease %q: %w", mode.Branch, err)
	}
	return withBranch.String(), nil
}

// ReleaseTag is the VCS tag for a package version.
func ReleaseTag(version string) string {
	return "v" + version
}
