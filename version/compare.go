// Package version provides unified mechanisms for application version tracking, update discovery, and compatibility validation.
package version

import (
	"fmt"
	"strings"
)

// semver holds the major, minor, and patch components of a release identifier.
type semver [3]int

func parseSemver(s string) (v semver, err error) {
	_, err = fmt.Sscanf(strings.TrimPrefix(s, "v"), "%d.%d.%d", &v[0], &v[1], &v[2])
	return v, err
}

// Compare orders two semantic version strings: 1 when a is newer than b,
// -1 when older, 0 when equal. A leading "v" on either input is ignored.
// Pre-release and build suffixes are not understood; releases here are plain
// major.minor.patch tags.
func Compare(a, b string) (int, error) {
	av, err := parseSemver(a)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", a, err)
	}

	bv, err := parseSemver(b)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", b, err)
	}

	for i := range av {
		switch {
		case av[i] > bv[i]:
			return 1, nil
		case av[i] < bv[i]:
			return -1, nil
		}
	}

	return 0, nil
}
