package artifact

import (
	"path"
	"strings"

	"github.com/matzehuels/mvnresolve/pkg/errors"
)

// DefaultExtension is the extension assumed when a coordinate omits one.
const DefaultExtension = "jar"

// Coordinate identifies a publishable unit. It is an immutable value; use
// [Coordinate.WithVersion] and friends to derive related coordinates.
type Coordinate struct {
	GroupID    string  // e.g. "org.apache.commons"
	ArtifactID string  // e.g. "commons-lang3"
	Extension  string  // packaging extension; empty means "jar"
	Classifier string  // optional, e.g. "sources"
	Version    Version // concrete version or range expression; empty for version-less keys
}

// ParseCoordinate parses group:artifact[:extension[:classifier]]:version.
// Any other number of segments, or an invalid segment, fails with
// [errors.ErrCodeMalformedCoordinate].
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")

	var c Coordinate
	switch len(parts) {
	case 3:
		c = Coordinate{GroupID: parts[0], ArtifactID: parts[1], Version: Version(parts[2])}
	case 4:
		c = Coordinate{GroupID: parts[0], ArtifactID: parts[1], Extension: parts[2], Version: Version(parts[3])}
	case 5:
		c = Coordinate{GroupID: parts[0], ArtifactID: parts[1], Extension: parts[2], Classifier: parts[3], Version: Version(parts[4])}
	default:
		return Coordinate{}, errors.New(errors.ErrCodeMalformedCoordinate,
			"invalid coordinate %q (expected group:artifact[:extension[:classifier]]:version)", s)
	}
	if err := c.validate(); err != nil {
		return Coordinate{}, errors.Wrap(errors.ErrCodeMalformedCoordinate, err, "invalid coordinate %q", s)
	}
	return c, nil
}

// MustParseCoordinate is like ParseCoordinate but panics on error.
func MustParseCoordinate(s string) Coordinate {
	c, err := ParseCoordinate(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseGA parses a version-less "group:artifact" key.
func ParseGA(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return Coordinate{}, errors.New(errors.ErrCodeMalformedCoordinate,
			"invalid key %q (expected group:artifact)", s)
	}
	c := Coordinate{GroupID: parts[0], ArtifactID: parts[1]}
	if err := errors.ValidateSegment("groupId", c.GroupID); err != nil {
		return Coordinate{}, errors.Wrap(errors.ErrCodeMalformedCoordinate, err, "invalid key %q", s)
	}
	if err := errors.ValidateSegment("artifactId", c.ArtifactID); err != nil {
		return Coordinate{}, errors.Wrap(errors.ErrCodeMalformedCoordinate, err, "invalid key %q", s)
	}
	return c, nil
}

func (c Coordinate) validate() error {
	if err := errors.ValidateSegment("groupId", c.GroupID); err != nil {
		return err
	}
	if err := errors.ValidateSegment("artifactId", c.ArtifactID); err != nil {
		return err
	}
	if err := errors.ValidateSegment("version", string(c.Version)); err != nil {
		return err
	}
	if c.Extension != "" {
		if err := errors.ValidateSegment("extension", c.Extension); err != nil {
			return err
		}
	}
	if c.Classifier != "" {
		if err := errors.ValidateSegment("classifier", c.Classifier); err != nil {
			return err
		}
	}
	return nil
}

// Ext returns the extension, defaulting to "jar".
func (c Coordinate) Ext() string {
	if c.Extension == "" {
		return DefaultExtension
	}
	return c.Extension
}

// GA returns "group:artifact", the identity used for conflict resolution
// and cycle detection.
func (c Coordinate) GA() string { return c.GroupID + ":" + c.ArtifactID }

// Key returns the version-insensitive identity including extension and
// classifier. Two coordinates with equal keys are the same artifact at
// possibly different versions.
func (c Coordinate) Key() string {
	k := c.GA() + ":" + c.Ext()
	if c.Classifier != "" {
		k += ":" + c.Classifier
	}
	return k
}

// SameArtifact reports whether c and o differ at most in version.
func (c Coordinate) SameArtifact(o Coordinate) bool { return c.Key() == o.Key() }

// String returns the canonical coordinate. The extension is omitted when it
// is the default and no classifier is present, so "junit:junit:4.13" round-trips.
func (c Coordinate) String() string {
	var b strings.Builder
	b.WriteString(c.GA())
	if c.Classifier != "" {
		b.WriteString(":" + c.Ext() + ":" + c.Classifier)
	} else if c.Ext() != DefaultExtension {
		b.WriteString(":" + c.Ext())
	}
	if c.Version != "" {
		b.WriteString(":" + string(c.Version))
	}
	return b.String()
}

// WithVersion returns a copy of c with the version replaced.
func (c Coordinate) WithVersion(v Version) Coordinate {
	c.Version = v
	return c
}

// POM returns the coordinate of c's project descriptor.
func (c Coordinate) POM() Coordinate {
	c.Extension = "pom"
	c.Classifier = ""
	return c
}

// IsSnapshot reports whether c refers to a snapshot version.
func (c Coordinate) IsSnapshot() bool { return c.Version.IsSnapshot() }

// Path returns the repository-relative path of c in the standard layout:
// group/as/dirs/artifact/version/artifact-version[-classifier].ext
func (c Coordinate) Path() string { return c.FilePath(c.Version) }

// FilePath is like Path but names the file after fileVersion, which differs
// from the directory version for timestamped snapshots.
func (c Coordinate) FilePath(fileVersion Version) string {
	name := c.ArtifactID + "-" + string(fileVersion)
	if c.Classifier != "" {
		name += "-" + c.Classifier
	}
	name += "." + c.Ext()
	return path.Join(c.groupPath(), c.ArtifactID, string(c.Version), name)
}

// MetadataPath returns the path of the artifact-level maven-metadata.xml,
// which lists every published version.
func (c Coordinate) MetadataPath() string {
	return path.Join(c.groupPath(), c.ArtifactID, "maven-metadata.xml")
}

// VersionMetadataPath returns the path of the version-level
// maven-metadata.xml used to resolve timestamped snapshots.
func (c Coordinate) VersionMetadataPath() string {
	return path.Join(c.groupPath(), c.ArtifactID, string(c.Version), "maven-metadata.xml")
}

func (c Coordinate) groupPath() string {
	return strings.ReplaceAll(c.GroupID, ".", "/")
}
