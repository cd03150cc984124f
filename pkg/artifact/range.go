package artifact

import (
	"strings"

	"github.com/matzehuels/mvnresolve/pkg/errors"
)

// Bound is one end of a bounded [Range].
type Bound struct {
	Version   Version
	Inclusive bool
}

// Range is a set of acceptable versions: an interval with optional lower and
// upper bounds, or a prefix wildcard. The zero Range matches nothing; use
// [ParseRange] or [AnyVersion].
type Range struct {
	lower  *Bound
	upper  *Bound
	prefix []string
	kind   rangeKind
}

type rangeKind uint8

const (
	kindNone rangeKind = iota
	kindInterval
	kindPrefix
)

// AnyVersion matches every version. It is equivalent to ParseRange("[0,)")
// except that qualifier-only versions are matched too.
func AnyVersion() Range { return Range{kind: kindPrefix} }

// ParseRange parses a version range expression.
//
// Accepted forms:
//
//	[a,b]  [a,b)  (a,b]  (a,b)   bounded intervals
//	[a,)   (a,)   (,b]   (,b)    half-open intervals
//	[a]                          exactly a
//	1.2.*  1.2    *              prefix: versions whose leading segments are 1, 2
//
// Unbalanced brackets, unions of ranges, a lower bound above the upper bound
// and empty intervals fail with [errors.ErrCodeMalformedRange].
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, errors.New(errors.ErrCodeMalformedRange, "empty version range")
	}
	if s[0] == '[' || s[0] == '(' {
		return parseInterval(s)
	}
	if strings.ContainsAny(s, "[]()") {
		return Range{}, errors.New(errors.ErrCodeMalformedRange, "unbalanced brackets in %q", s)
	}
	return parsePrefix(s)
}

// MustParseRange is like ParseRange but panics on error. Intended for tests
// and package-level fixtures.
func MustParseRange(s string) Range {
	r, err := ParseRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

// PrefixRange returns the range of versions starting with prefix. An empty
// prefix matches every version.
func PrefixRange(prefix string) (Range, error) {
	if prefix == "" {
		return AnyVersion(), nil
	}
	return ParseRange(strings.TrimSuffix(prefix, ".*") + ".*")
}

// IsRange reports whether a declared version string must be expanded against
// a repository index rather than used as-is.
func IsRange(s string) bool {
	return strings.ContainsAny(s, "[(*")
}

func parseInterval(s string) (Range, error) {
	last := s[len(s)-1]
	if last != ']' && last != ')' {
		return Range{}, errors.New(errors.ErrCodeMalformedRange, "unbalanced brackets in %q", s)
	}
	inner := s[1 : len(s)-1]
	if strings.ContainsAny(inner, "[]()") {
		return Range{}, errors.New(errors.ErrCodeMalformedRange, "unions of ranges are not supported: %q", s)
	}
	lowerInc, upperInc := s[0] == '[', last == ']'

	parts := strings.Split(inner, ",")
	switch len(parts) {
	case 1:
		v := strings.TrimSpace(parts[0])
		if v == "" || !lowerInc || !upperInc {
			return Range{}, errors.New(errors.ErrCodeMalformedRange, "exact range must be of the form [version]: %q", s)
		}
		b := &Bound{Version: Version(v), Inclusive: true}
		return Range{lower: b, upper: b, kind: kindInterval}, nil
	case 2:
	default:
		return Range{}, errors.New(errors.ErrCodeMalformedRange, "too many bounds in %q", s)
	}

	r := Range{kind: kindInterval}
	if lo := strings.TrimSpace(parts[0]); lo != "" {
		r.lower = &Bound{Version: Version(lo), Inclusive: lowerInc}
	}
	if hi := strings.TrimSpace(parts[1]); hi != "" {
		r.upper = &Bound{Version: Version(hi), Inclusive: upperInc}
	}
	if r.lower == nil && r.upper == nil {
		return Range{}, errors.New(errors.ErrCodeMalformedRange, "range %q has no bounds", s)
	}
	if r.lower != nil && r.upper != nil {
		c := CompareVersions(r.lower.Version, r.upper.Version)
		if c > 0 {
			return Range{}, errors.New(errors.ErrCodeMalformedRange, "lower bound above upper bound in %q", s)
		}
		if c == 0 && !(r.lower.Inclusive && r.upper.Inclusive) {
			return Range{}, errors.New(errors.ErrCodeMalformedRange, "range %q is empty", s)
		}
	}
	return r, nil
}

func parsePrefix(s string) (Range, error) {
	if s == "*" {
		return AnyVersion(), nil
	}
	body := strings.TrimSuffix(s, ".*")
	if strings.Contains(body, "*") {
		return Range{}, errors.New(errors.ErrCodeMalformedRange, "wildcard must be the last segment in %q", s)
	}
	for _, seg := range strings.Split(body, ".") {
		if seg == "" {
			return Range{}, errors.New(errors.ErrCodeMalformedRange, "empty segment in %q", s)
		}
	}
	return Range{prefix: tokenize(body), kind: kindPrefix}, nil
}

// Contains reports whether v lies within r.
func (r Range) Contains(v Version) bool {
	switch r.kind {
	case kindPrefix:
		toks := tokenize(string(v))
		if len(toks) < len(r.prefix) {
			return false
		}
		for i, p := range r.prefix {
			if compareToken(p, toks[i]) != 0 {
				return false
			}
		}
		return true
	case kindInterval:
		if r.lower != nil {
			c := CompareVersions(v, r.lower.Version)
			if c < 0 || (c == 0 && !r.lower.Inclusive) {
				return false
			}
		}
		if r.upper != nil {
			c := CompareVersions(v, r.upper.Version)
			if c > 0 || (c == 0 && !r.upper.Inclusive) {
				return false
			}
		}
		return true
	}
	return false
}

// Filter returns the versions of vs contained in r, preserving order.
func (r Range) Filter(vs []Version) []Version {
	out := make([]Version, 0, len(vs))
	for _, v := range vs {
		if r.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

// Lower returns the lower bound, if any.
func (r Range) Lower() (Bound, bool) {
	if r.lower == nil {
		return Bound{}, false
	}
	return *r.lower, true
}

// Upper returns the upper bound, if any.
func (r Range) Upper() (Bound, bool) {
	if r.upper == nil {
		return Bound{}, false
	}
	return *r.upper, true
}

// IsPrefix reports whether r is a prefix wildcard range.
func (r Range) IsPrefix() bool { return r.kind == kindPrefix }

// String returns r in canonical notation.
func (r Range) String() string {
	switch r.kind {
	case kindPrefix:
		if len(r.prefix) == 0 {
			return "*"
		}
		return strings.Join(r.prefix, ".") + ".*"
	case kindInterval:
		if r.lower != nil && r.upper != nil && r.lower == r.upper {
			return "[" + string(r.lower.Version) + "]"
		}
		var b strings.Builder
		if r.lower != nil && r.lower.Inclusive {
			b.WriteByte('[')
		} else {
			b.WriteByte('(')
		}
		if r.lower != nil {
			b.WriteString(string(r.lower.Version))
		}
		b.WriteByte(',')
		if r.upper != nil {
			b.WriteString(string(r.upper.Version))
		}
		if r.upper != nil && r.upper.Inclusive {
			b.WriteByte(']')
		} else {
			b.WriteByte(')')
		}
		return b.String()
	}
	return ""
}
