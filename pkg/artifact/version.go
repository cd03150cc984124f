package artifact

import (
	"slices"
	"strings"
)

// Version is a dependency version string such as "4.13.2" or "1.0-SNAPSHOT".
type Version string

const snapshotQualifier = "SNAPSHOT"

// String returns the version as written.
func (v Version) String() string { return string(v) }

// IsSnapshot reports whether v is a snapshot version.
func (v Version) IsSnapshot() bool {
	return strings.HasSuffix(string(v), snapshotQualifier)
}

// Compare returns -1, 0 or 1 as v sorts before, equal to or after o.
func (v Version) Compare(o Version) int { return CompareVersions(v, o) }

// Segments returns the tokens of v as used for prefix matching. Dots, dashes
// and underscores separate tokens, as does every switch between digits and
// non-digits ("1.0rc2" → ["1" "0" "rc" "2"]).
func (v Version) Segments() []string { return tokenize(string(v)) }

// CompareVersions orders a and b. It is a total order:
//
//   - leading numeric segments compare numerically, missing segments count as 0
//   - with equal numeric parts, a version without qualifier sorts after one with
//   - qualifier segments compare numerically when both are numeric, otherwise
//     lexically ignoring case; a shorter qualifier that is a prefix sorts first
func CompareVersions(a, b Version) int {
	pa, pb := parseVersion(a), parseVersion(b)

	for i := range max(len(pa.nums), len(pb.nums)) {
		if c := compareNumeric(at(pa.nums, i), at(pb.nums, i)); c != 0 {
			return c
		}
	}

	switch {
	case len(pa.quals) == 0 && len(pb.quals) == 0:
		return 0
	case len(pa.quals) == 0:
		return 1
	case len(pb.quals) == 0:
		return -1
	}

	for i := range min(len(pa.quals), len(pb.quals)) {
		if c := compareToken(pa.quals[i], pb.quals[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(pa.quals) < len(pb.quals):
		return -1
	case len(pa.quals) > len(pb.quals):
		return 1
	}
	return 0
}

// SortVersions sorts vs ascending in place.
func SortVersions(vs []Version) {
	slices.SortStableFunc(vs, CompareVersions)
}

// Latest returns the highest version in vs, or false when vs is empty.
func Latest(vs []Version) (Version, bool) {
	if len(vs) == 0 {
		return "", false
	}
	return slices.MaxFunc(vs, CompareVersions), true
}

type parsedVersion struct {
	nums  []string
	quals []string
}

func parseVersion(v Version) parsedVersion {
	toks := tokenize(string(v))
	i := 0
	for i < len(toks) && isDigits(toks[i]) {
		i++
	}
	return parsedVersion{nums: toks[:i], quals: toks[i:]}
}

func tokenize(s string) []string {
	var toks []string
	start := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '.' || c == '-' || c == '_' {
			if start >= 0 {
				toks = append(toks, s[start:i])
				start = -1
			}
			continue
		}
		if start >= 0 && isDigit(c) != isDigit(s[start]) {
			toks = append(toks, s[start:i])
			start = i
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		toks = append(toks, s[start:])
	}
	return toks
}

func compareToken(a, b string) int {
	if isDigits(a) && isDigits(b) {
		return compareNumeric(a, b)
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// compareNumeric compares digit strings of arbitrary length.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return strings.Compare(a, b)
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return "0"
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
