package artifact

import (
	"slices"
	"strings"

	"github.com/matzehuels/mvnresolve/pkg/errors"
)

// Exclusion suppresses matching coordinates beneath the edge that declares
// it. Either field may be "*" to match anything.
type Exclusion struct {
	GroupID    string `json:"groupId" toml:"group" yaml:"group"`
	ArtifactID string `json:"artifactId" toml:"artifact" yaml:"artifact"`
}

// ParseExclusion parses "group:artifact", where either part may be "*".
func ParseExclusion(s string) (Exclusion, error) {
	g, a, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || g == "" || a == "" || strings.Contains(a, ":") {
		return Exclusion{}, errors.New(errors.ErrCodeMalformedCoordinate, "invalid exclusion %q (expected group:artifact)", s)
	}
	return Exclusion{GroupID: g, ArtifactID: a}, nil
}

// Matches reports whether c falls under the exclusion.
func (e Exclusion) Matches(c Coordinate) bool {
	return matchField(e.GroupID, c.GroupID) && matchField(e.ArtifactID, c.ArtifactID)
}

func (e Exclusion) String() string { return e.GroupID + ":" + e.ArtifactID }

func matchField(pattern, s string) bool { return pattern == "*" || pattern == s }

// Dependency is one declared edge: a coordinate (whose version may be a range
// or empty when supplied by dependency management) plus its edge attributes.
type Dependency struct {
	Coordinate Coordinate
	Scope      Scope
	Optional   bool
	Exclusions []Exclusion
	SystemPath string // local file for system-scoped dependencies
}

// Merge fills the unset fields of d from managed, the dependency-management
// entry for the same group:artifact. Values declared on d always win; only
// version, scope, exclusions and system path are managed.
func (d Dependency) Merge(managed Dependency) Dependency {
	out := d
	if out.Coordinate.Version == "" {
		out.Coordinate.Version = managed.Coordinate.Version
	}
	if out.Scope == "" {
		out.Scope = managed.Scope
	}
	if len(out.Exclusions) == 0 && len(managed.Exclusions) > 0 {
		out.Exclusions = slices.Clone(managed.Exclusions)
	}
	if out.SystemPath == "" {
		out.SystemPath = managed.SystemPath
	}
	return out
}

// Excludes reports whether any of d's exclusions matches c.
func (d Dependency) Excludes(c Coordinate) bool {
	for _, e := range d.Exclusions {
		if e.Matches(c) {
			return true
		}
	}
	return false
}

// String renders d as "coordinate (scope[, optional])".
func (d Dependency) String() string {
	s := d.Coordinate.String() + " (" + string(d.Scope.OrDefault())
	if d.Optional {
		s += ", optional"
	}
	return s + ")"
}

// Artifact is a coordinate at a concrete version together with where it was
// materialized. File is empty until the artifact has been downloaded.
type Artifact struct {
	Coordinate Coordinate
	File       string // absolute path in the local repository
	Repository string // id of the repository that served it
}

// Resolved reports whether the artifact has a local file.
func (a Artifact) Resolved() bool { return a.File != "" }

func (a Artifact) String() string {
	if a.Repository == "" {
		return a.Coordinate.String()
	}
	return a.Coordinate.String() + " (" + a.Repository + ")"
}
