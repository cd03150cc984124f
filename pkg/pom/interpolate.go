package pom

import "strings"

const maxInterpolationPasses = 8

// interpolate replaces ${name} references using lookup until nothing more
// can be resolved. Unknown references are left in place.
func interpolate(s string, lookup func(string) (string, bool)) string {
	for range maxInterpolationPasses {
		if !strings.Contains(s, "${") {
			return s
		}
		next, changed := expand(s, lookup)
		if !changed {
			return next
		}
		s = next
	}
	return s
}

func expand(s string, lookup func(string) (string, bool)) (string, bool) {
	var b strings.Builder
	changed := false
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			b.WriteString(s)
			return b.String(), changed
		}
		end := strings.IndexByte(s[start:], '}')
		if end < 0 {
			b.WriteString(s)
			return b.String(), changed
		}
		end += start
		b.WriteString(s[:start])
		if v, ok := lookup(s[start+2 : end]); ok {
			b.WriteString(v)
			changed = true
		} else {
			b.WriteString(s[start : end+1])
		}
		s = s[end+1:]
	}
}

func unresolved(s string) bool { return strings.Contains(s, "${") }
