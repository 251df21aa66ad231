package agent

import (
	"regexp"
	"strconv"
)

// Version identifier format: optional "v" prefix, major.minor with an
// optional patch component. Examples: "1.0", "v2.1", "v2.1.3"
var versionRegex = regexp.MustCompile(`^v?(\d+)\.(\d+)(?:\.(\d+))?$`)

// Version is a parsed semantic version identifier
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a version identifier. The second return value
// reports whether the identifier matches the semantic version pattern;
// identifiers that do not match are not an error, they just cannot be
// ranked.
func ParseVersion(s string) (Version, bool) {
	m := versionRegex.FindStringSubmatch(s)
	if m == nil {
		return Version{}, false
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Version{}, false
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Version{}, false
	}

	patch := 0
	if m[3] != "" {
		patch, err = strconv.Atoi(m[3])
		if err != nil {
			return Version{}, false
		}
	}

	return Version{Major: major, Minor: minor, Patch: patch}, true
}

// Compare returns -1, 0 or 1 when v is ranked lower than, equal to or
// higher than other. Ranking is numeric by (major, minor, patch), not
// lexicographic.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		return compareInt(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return compareInt(v.Minor, other.Minor)
	}
	return compareInt(v.Patch, other.Patch)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
