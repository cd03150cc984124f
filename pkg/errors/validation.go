package errors

import (
	"strings"
	"unicode"
)

const maxSegmentLen = 256

// ValidateSegment checks one coordinate segment (group, artifact, version,
// extension or classifier) before it is used to build repository paths and
// URLs. kind names the segment in the returned error.
//
// Rejected:
//   - empty segments
//   - segments longer than 256 bytes
//   - control characters and whitespace
//   - path separators and traversal sequences
func ValidateSegment(kind, s string) error {
	if s == "" {
		return New(ErrCodeMalformedCoordinate, "%s cannot be empty", kind)
	}
	if len(s) > maxSegmentLen {
		return New(ErrCodeMalformedCoordinate, "%s too long (max %d characters)", kind, maxSegmentLen)
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeMalformedCoordinate, "%s %q contains invalid characters", kind, s)
		}
	}
	for _, pattern := range []string{"..", "/", "\\", ":"} {
		if strings.Contains(s, pattern) {
			return New(ErrCodeMalformedCoordinate, "%s %q contains invalid characters: %q", kind, s, pattern)
		}
	}
	return nil
}
