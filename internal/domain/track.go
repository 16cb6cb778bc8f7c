package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"
)

// Track is one of the parallel deployment lineages. Its value is the branch that feeds it.
type Track string

const (
	TrackDevelop Track = "develop"
	TrackStaging Track = "staging"
	TrackMaster  Track = "master"
)

// Tracks lists every known track.
func Tracks() []Track {
	return []Track{TrackDevelop, TrackStaging, TrackMaster}
}

// TrackForBranch resolves the track fed by a branch.
func TrackForBranch(branch string) (Track, error) {
	for _, t := range Tracks() {
		if string(t) == branch {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTrack, branch)
}

// TagSuffix is the suffix carried by every release tag on the track.
func (t Track) TagSuffix() string {
	return "-" + string(t)
}

// Environment is the short environment label used in release notices.
func (t Track) Environment() string {
	switch t {
	case TrackDevelop:
		return "test"
	case TrackStaging:
		return "staging"
	case TrackMaster:
		return "prod"
	}
	return string(t)
}

// LatestTag returns the highest release tag for the track.
func (t Track) LatestTag(tags []string) (string, error) {
	var matching []string
	for _, tag := range tags {
		if strings.HasSuffix(tag, t.TagSuffix()) {
			matching = append(matching, tag)
		}
	}
	if len(matching) == 0 {
		return "", MissingTagError{Track: t}
	}
	SortTags(matching)
	return matching[len(matching)-1], nil
}

// SortTags orders release tags ascending by version. Tags that are not
// semantic versions are compared segment-wise with numeric runs as integers.
func SortTags(tags []string) {
	sort.SliceStable(tags, func(i, j int) bool {
		return CompareTags(tags[i], tags[j]) < 0
	})
}

// CompareTags compares two release tags, ignoring any track suffix.
func CompareTags(a, b string) int {
	va, errA := semver.NewVersion(stripTrack(a))
	vb, errB := semver.NewVersion(stripTrack(b))
	if errA == nil && errB == nil {
		if c := va.Compare(vb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	}
	return naturalCompare(a, b)
}

func stripTrack(tag string) string {
	for _, t := range Tracks() {
		if strings.HasSuffix(tag, t.TagSuffix()) {
			return strings.TrimSuffix(tag, t.TagSuffix())
		}
	}
	return tag
}

// naturalCompare compares strings treating runs of digits as integers.
func naturalCompare(a, b string) int {
	ca, cb := chunk(a), chunk(b)
	for i := 0; i < len(ca) && i < len(cb); i++ {
		x, y := ca[i], cb[i]
		nx, errX := strconv.ParseUint(x, 10, 64)
		ny, errY := strconv.ParseUint(y, 10, 64)
		switch {
		case errX == nil && errY == nil:
			if nx != ny {
				if nx < ny {
					return -1
				}
				return 1
			}
		default:
			if c := strings.Compare(x, y); c != 0 {
				return c
			}
		}
	}
	switch {
	case len(ca) < len(cb):
		return -1
	case len(ca) > len(cb):
		return 1
	}
	return 0
}

func chunk(s string) []string {
	var out []string
	var cur strings.Builder
	digit := false
	for i, r := range s {
		isDigit := unicode.IsDigit(r)
		if i > 0 && isDigit != digit {
			out = append(out, cur.String())
			cur.Reset()
		}
		digit = isDigit
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// BranchScopedName fills the "{branch}" placeholder of a file name template
// with "-<branch>", or removes it when branch is empty.
func BranchScopedName(template, branch string) string {
	if branch == "" {
		return strings.ReplaceAll(template, "{branch}", "")
	}
	return strings.ReplaceAll(template, "{branch}", "-"+branch)
}
