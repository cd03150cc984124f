package pom

import (
	"context"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/mvnresolve/pkg/artifact"
	"github.com/matzehuels/mvnresolve/pkg/errors"
	"github.com/matzehuels/mvnresolve/pkg/repository"
)

// MaxParentDepth bounds the parent and BOM import chain of a single POM.
const MaxParentDepth = 16

// Fetcher materializes artifacts; [repository.Index] and the engine's
// deduplicating materializer both satisfy it.
type Fetcher interface {
	FetchArtifact(ctx context.Context, c artifact.Coordinate, extra []repository.Remote) (artifact.Artifact, error)
}

// Model is the effective project model of a coordinate: its own POM merged
// with its parents and imported BOMs, with properties interpolated.
type Model struct {
	Coordinate   artifact.Coordinate
	Packaging    string
	Properties   map[string]string
	Dependencies []artifact.Dependency
	Managed      []artifact.Dependency
}

// Source reads dependency metadata from POM files. Parsed documents are
// memoized for the lifetime of the Source; concurrent requests for the same
// POM share one download.
type Source struct {
	fetcher Fetcher
	extra   []repository.Remote
	logger  *log.Logger
	memo    *memo
}

type memo struct {
	group    singleflight.Group
	mu       sync.RWMutex
	projects map[string]*Project
}

// NewSource returns a Source reading POMs through f. extra repositories are
// passed on every fetch.
func NewSource(f Fetcher, logger *log.Logger, extra ...repository.Remote) *Source {
	if logger == nil {
		logger = log.Default()
	}
	return &Source{
		fetcher: f,
		extra:   extra,
		logger:  logger,
		memo:    &memo{projects: make(map[string]*Project)},
	}
}

// WithRepositories returns a Source sharing s's memo that additionally
// searches extra.
func (s *Source) WithRepositories(extra ...repository.Remote) *Source {
	if len(extra) == 0 {
		return s
	}
	return &Source{
		fetcher: s.fetcher,
		extra:   append(append([]repository.Remote(nil), s.extra...), extra...),
		logger:  s.logger,
		memo:    s.memo,
	}
}

// Dependencies returns the declared dependencies of c, in POM order.
func (s *Source) Dependencies(ctx context.Context, c artifact.Coordinate) ([]artifact.Dependency, error) {
	m, err := s.Model(ctx, c)
	if err != nil {
		return nil, err
	}
	return m.Dependencies, nil
}

// Model returns the effective model of c.
func (s *Source) Model(ctx context.Context, c artifact.Coordinate) (*Model, error) {
	return s.model(ctx, c.POM(), nil)
}

func (s *Source) model(ctx context.Context, c artifact.Coordinate, chain []string) (*Model, error) {
	lineage, chain, err := s.lineage(ctx, c, chain)
	if err != nil {
		return nil, err
	}
	p := lineage[0]

	m := &Model{
		Coordinate: artifact.Coordinate{
			GroupID:    p.effectiveGroupID(),
			ArtifactID: p.ArtifactID,
			Version:    artifact.Version(p.effectiveVersion()),
		},
		Packaging:  p.Packaging,
		Properties: make(map[string]string),
	}
	for i := len(lineage) - 1; i >= 0; i-- {
		maps.Copy(m.Properties, lineage[i].Properties)
	}
	lookup := m.lookup(p.Parent)

	if err := s.manage(ctx, m, lineage, lookup, chain); err != nil {
		return nil, err
	}
	s.declare(m, lineage, lookup)
	return m, nil
}

// lineage loads c and its ancestors, nearest first.
func (s *Source) lineage(ctx context.Context, c artifact.Coordinate, chain []string) ([]*Project, []string, error) {
	var out []*Project
	for {
		id := c.String()
		if len(chain) >= MaxParentDepth {
			return nil, nil, errors.New(errors.ErrCodeResolution, "%s: parent chain deeper than %d", chain[0], MaxParentDepth)
		}
		if slices.Contains(chain, id) {
			return nil, nil, errors.New(errors.ErrCodeResolution, "%s: parent cycle through %s", chain[0], id)
		}
		chain = append(chain, id)

		p, err := s.project(ctx, c)
		if err != nil {
			if len(out) > 0 {
				return nil, nil, errors.Wrap(codeOf(err), err, "parent of %s", chain[len(chain)-2])
			}
			return nil, nil, err
		}
		out = append(out, p)
		if p.Parent == nil {
			return out, chain, nil
		}
		c = artifact.Coordinate{
			GroupID:    p.Parent.GroupID,
			ArtifactID: p.Parent.ArtifactID,
			Extension:  "pom",
			Version:    artifact.Version(p.Parent.Version),
		}
	}
}

// manage builds the dependencyManagement table: entries declared along the
// lineage (nearest first), then those of imported BOMs. Earlier entries win.
func (s *Source) manage(ctx context.Context, m *Model, lineage []*Project, lookup func(string) (string, bool), chain []string) error {
	seen := make(map[string]bool)
	add := func(d artifact.Dependency) {
		if k := d.Coordinate.Key(); !seen[k] {
			seen[k] = true
			m.Managed = append(m.Managed, d)
		}
	}

	var imports []artifact.Coordinate
	for _, p := range lineage {
		for _, x := range p.Management {
			d, ok := s.convert(x, lookup)
			if !ok {
				continue
			}
			if d.Scope == scopeImport && d.Coordinate.Ext() == "pom" {
				imports = append(imports, d.Coordinate)
				continue
			}
			add(d)
		}
	}
	for _, bom := range imports {
		if bom.Version == "" {
			s.logger.Debug("skipping bom import without version", "bom", bom.GA(), "pom", m.Coordinate)
			continue
		}
		bm, err := s.model(ctx, bom, chain)
		if err != nil {
			return errors.Wrap(codeOf(err), err, "import %s into %s", bom, m.Coordinate)
		}
		for _, d := range bm.Managed {
			add(d)
		}
	}
	return nil
}

// declare fills m.Dependencies: the project's own declarations in order,
// then inherited ones not redeclared. Missing versions come from m.Managed.
func (s *Source) declare(m *Model, lineage []*Project, lookup func(string) (string, bool)) {
	managed := make(map[string]artifact.Dependency, len(m.Managed))
	for _, d := range m.Managed {
		managed[d.Coordinate.Key()] = d
	}
	seen := make(map[string]bool)

	for _, p := range lineage {
		for _, x := range p.Dependencies {
			d, ok := s.convert(x, lookup)
			if !ok {
				continue
			}
			if mg, ok := managed[d.Coordinate.Key()]; ok {
				d = d.Merge(mg)
			}
			if k := d.Coordinate.Key(); !seen[k] {
				seen[k] = true
				m.Dependencies = append(m.Dependencies, d)
			}
		}
	}
}

const scopeImport = artifact.Scope("import")

// convert interpolates x into a Dependency. Entries whose group or artifact
// stay unresolved are dropped; an unresolved version becomes empty so that
// dependency management can supply it.
func (s *Source) convert(x XMLDependency, lookup func(string) (string, bool)) (artifact.Dependency, bool) {
	in := func(v string) string { return strings.TrimSpace(interpolate(v, lookup)) }

	group, art := in(x.GroupID), in(x.ArtifactID)
	if group == "" || art == "" || unresolved(group) || unresolved(art) {
		s.logger.Debug("skipping dependency with unresolved coordinate", "group", x.GroupID, "artifact", x.ArtifactID)
		return artifact.Dependency{}, false
	}
	version := in(x.Version)
	if unresolved(version) {
		version = ""
	}
	ext, classifier := typeInfo(in(x.Type))
	if c := in(x.Classifier); c != "" {
		classifier = c
	}

	d := artifact.Dependency{
		Coordinate: artifact.Coordinate{
			GroupID:    group,
			ArtifactID: art,
			Extension:  ext,
			Classifier: classifier,
			Version:    artifact.Version(version),
		},
		Scope:      artifact.Scope(in(x.Scope)),
		Optional:   in(x.Optional) == "true",
		SystemPath: in(x.SystemPath),
	}
	for _, e := range x.Exclusions {
		eg, ea := in(e.GroupID), in(e.ArtifactID)
		if eg == "" || ea == "" {
			continue
		}
		d.Exclusions = append(d.Exclusions, artifact.Exclusion{GroupID: eg, ArtifactID: ea})
	}
	return d, true
}

var types = map[string][2]string{
	"":             {"", ""},
	"jar":          {"", ""},
	"bundle":       {"", ""},
	"maven-plugin": {"", ""},
	"ejb":          {"", ""},
	"ejb-client":   {"", "client"},
	"test-jar":     {"", "tests"},
	"java-source":  {"", "sources"},
	"javadoc":      {"", "javadoc"},
}

// typeInfo maps a dependency <type> to its file extension and implied
// classifier. Unknown types are their own extension.
func typeInfo(t string) (ext, classifier string) {
	if ti, ok := types[t]; ok {
		return ti[0], ti[1]
	}
	return t, ""
}

func codeOf(err error) errors.Code {
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeResolution
}

func (m *Model) lookup(parent *Parent) func(string) (string, bool) {
	builtins := map[string]string{
		"project.groupId":    m.Coordinate.GroupID,
		"project.artifactId": m.Coordinate.ArtifactID,
		"project.version":    string(m.Coordinate.Version),
		"pom.groupId":        m.Coordinate.GroupID,
		"pom.artifactId":     m.Coordinate.ArtifactID,
		"pom.version":        string(m.Coordinate.Version),
		"groupId":            m.Coordinate.GroupID,
		"artifactId":         m.Coordinate.ArtifactID,
		"version":            string(m.Coordinate.Version),
		"project.packaging":  m.Packaging,
	}
	if parent != nil {
		builtins["project.parent.groupId"] = parent.GroupID
		builtins["project.parent.artifactId"] = parent.ArtifactID
		builtins["project.parent.version"] = parent.Version
		builtins["parent.version"] = parent.Version
	}
	return func(name string) (string, bool) {
		if v, ok := builtins[name]; ok && v != "" {
			return v, true
		}
		v, ok := m.Properties[name]
		return v, ok
	}
}

// project downloads and parses the POM of c once.
func (s *Source) project(ctx context.Context, c artifact.Coordinate) (*Project, error) {
	key := c.String()
	s.memo.mu.RLock()
	p, ok := s.memo.projects[key]
	s.memo.mu.RUnlock()
	if ok {
		return p, nil
	}

	v, err, _ := s.memo.group.Do(key, func() (any, error) {
		a, err := s.fetcher.FetchArtifact(ctx, c, s.extra)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(a.File)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", a.File)
		}
		p, err := Parse(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCorrupt, err, "%s", c)
		}
		s.memo.mu.Lock()
		s.memo.projects[key] = p
		s.memo.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Project), nil
}
