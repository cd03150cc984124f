package repository

import (
	"encoding/xml"
	"strconv"

	"github.com/matzehuels/mvnresolve/pkg/artifact"
	"github.com/matzehuels/mvnresolve/pkg/errors"
)

// Metadata is a maven-metadata.xml document. At artifact level it lists the
// published versions; at version level (snapshots only) it maps the base
// SNAPSHOT version to the timestamped file names of the latest build.
type Metadata struct {
	GroupID    string     `xml:"groupId"`
	ArtifactID string     `xml:"artifactId"`
	Version    string     `xml:"version"`
	Versioning Versioning `xml:"versioning"`
}

// Versioning is the <versioning> element of [Metadata].
type Versioning struct {
	Latest           string            `xml:"latest"`
	Release          string            `xml:"release"`
	Versions         []string          `xml:"versions>version"`
	LastUpdated      string            `xml:"lastUpdated"`
	Snapshot         *Snapshot         `xml:"snapshot"`
	SnapshotVersions []SnapshotVersion `xml:"snapshotVersions>snapshotVersion"`
}

// Snapshot identifies the newest build of a SNAPSHOT version.
type Snapshot struct {
	Timestamp   string `xml:"timestamp"`
	BuildNumber int    `xml:"buildNumber"`
	LocalCopy   bool   `xml:"localCopy"`
}

// SnapshotVersion maps one file of a snapshot build to its versioned name.
type SnapshotVersion struct {
	Classifier string `xml:"classifier"`
	Extension  string `xml:"extension"`
	Value      string `xml:"value"`
}

// ParseMetadata decodes a maven-metadata.xml document.
func ParseMetadata(data []byte) (*Metadata, error) {
	var m Metadata
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCorrupt, err, "malformed maven-metadata.xml")
	}
	return &m, nil
}

// AllVersions returns the listed versions, falling back to latest/release
// for documents that omit the <versions> list.
func (m *Metadata) AllVersions() []artifact.Version {
	out := make([]artifact.Version, 0, len(m.Versioning.Versions)+2)
	for _, v := range m.Versioning.Versions {
		if v != "" {
			out = append(out, artifact.Version(v))
		}
	}
	if len(out) == 0 {
		for _, v := range []string{m.Versioning.Release, m.Versioning.Latest} {
			if v != "" {
				out = append(out, artifact.Version(v))
			}
		}
	}
	return out
}

// SnapshotFileVersion returns the timestamped version used in file names
// for c, or c.Version when the document does not resolve it.
func (m *Metadata) SnapshotFileVersion(c artifact.Coordinate) artifact.Version {
	for _, sv := range m.Versioning.SnapshotVersions {
		if sv.Extension == c.Ext() && sv.Classifier == c.Classifier && sv.Value != "" {
			return artifact.Version(sv.Value)
		}
	}
	s := m.Versioning.Snapshot
	if !c.IsSnapshot() || s == nil || s.LocalCopy || s.Timestamp == "" || s.BuildNumber <= 0 {
		return c.Version
	}
	base := string(c.Version)
	base = base[:len(base)-len("SNAPSHOT")]
	return artifact.Version(base + s.Timestamp + "-" + strconv.Itoa(s.BuildNumber))
}
