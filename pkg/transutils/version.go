package transutils

import (
	"fmt"
	"regexp"
	"strconv"
)

// Version is a semantic version triple.
type Version struct {
	Major, Minor, Patch int
}

// MinVersion is the oldest stats-tool release whose stats subcommand accepts
// the -l language filter.
var MinVersion = Version{0, 4, 0}

// versionRegex extracts the version triple from the tool's -V banner,
// e.g. "deepin-translation-utils 0.4.0-0-g08b7ee6".
var versionRegex = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)

// ParseVersion extracts the first MAJOR.MINOR.PATCH triple found in s.
func ParseVersion(s string) (Version, bool) {
	m := versionRegex.FindStringSubmatch(s)
	if m == nil {
		return Version{}, false
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])
	return Version{major, minor, patch}, true
}

// Less reports whether v precedes o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor < o.Minor
	}
	return v.Patch < o.Patch
}

// String returns the dotted form, e.g. "0.4.0".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
