package graph

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/mvnresolve/pkg/artifact"
	"github.com/matzehuels/mvnresolve/pkg/errors"
)

// Defaults applied by Options.WithDefaults when a field is left zero.
const (
	DefaultMaxDepth    = 50 // Default maximum tree depth
	DefaultConcurrency = 8  // Default number of subtrees expanded in parallel
)

// MetadataSource lists the declared dependencies of a coordinate.
type MetadataSource interface {
	Dependencies(ctx context.Context, c artifact.Coordinate) ([]artifact.Dependency, error)
}

// VersionLister lists the versions of an artifact inside a range, ascending.
type VersionLister interface {
	ListVersions(ctx context.Context, c artifact.Coordinate, r artifact.Range, snapshots bool) ([]artifact.Version, error)
}

// Options configures a [Builder].
type Options struct {
	MaxDepth    int         // Nodes at this depth are not expanded (default: 50)
	Concurrency int         // Subtrees expanded in parallel (default: 8)
	Snapshots   bool        // Also consult snapshot repositories when resolving ranges
	Logger      *log.Logger // Defaults to log.Default()
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return opts
}

// Builder expands dependency trees. It holds no per-build state and may be
// used for any number of concurrent builds.
type Builder struct {
	source   MetadataSource
	versions VersionLister
	opts     Options
}

// NewBuilder returns a Builder reading metadata from source and resolving
// ranges through versions.
func NewBuilder(source MetadataSource, versions VersionLister, opts Options) *Builder {
	return &Builder{source: source, versions: versions, opts: opts.WithDefaults()}
}

// Build expands root into its transitive tree. managed supplies versions,
// scopes and exclusions for dependencies that omit them, matched by
// group:artifact. filter may be nil.
//
// A failure to resolve the root, or any non-optional node, aborts the build.
// Cancelling ctx stops further expansion and returns ctx.Err().
func (b *Builder) Build(ctx context.Context, root artifact.Dependency, managed []artifact.Dependency, filter Filter) (*Node, error) {
	s := &build{
		Builder: b,
		managed: make(map[string]artifact.Dependency, len(managed)),
		filter:  filter,
		slots:   make(chan struct{}, b.opts.Concurrency),
	}
	for _, m := range managed {
		if _, dup := s.managed[m.Coordinate.GA()]; !dup {
			s.managed[m.Coordinate.GA()] = m
		}
	}

	node := &Node{
		Dependency: root,
		Premanaged: root.Coordinate.Version,
		Scope:      root.Scope.OrDefault(),
	}
	version, err := s.version(ctx, root.Coordinate)
	if err != nil {
		return nil, err
	}
	node.Dependency.Coordinate.Version = version

	path := branch{
		ga:         []string{root.Coordinate.GA()},
		deps:       []artifact.Dependency{node.Dependency},
		exclusions: root.Exclusions,
	}
	if err := s.expand(ctx, node, path); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return node, nil
}

// build is the state of one Build call.
type build struct {
	*Builder
	managed map[string]artifact.Dependency
	filter  Filter
	slots   chan struct{}

	metadata memo[[]artifact.Dependency]
	ranges   memo[artifact.Version]
}

// branch is the path from the root to the node being expanded. Every
// goroutine owns its branch; slices are never appended to in place.
type branch struct {
	ga         []string
	deps       []artifact.Dependency
	exclusions []artifact.Exclusion
}

func (p branch) extend(d artifact.Dependency) branch {
	return branch{
		ga:         append(p.ga[:len(p.ga):len(p.ga)], d.Coordinate.GA()),
		deps:       append(p.deps[:len(p.deps):len(p.deps)], d),
		exclusions: append(p.exclusions[:len(p.exclusions):len(p.exclusions)], d.Exclusions...),
	}
}

func (p branch) excludes(c artifact.Coordinate) bool {
	for _, e := range p.exclusions {
		if e.Matches(c) {
			return true
		}
	}
	return false
}

func (p branch) String() string { return strings.Join(p.ga, " -> ") }

// expand fills node.Children and recurses into them.
func (s *build) expand(ctx context.Context, node *Node, path branch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if node.Depth >= s.opts.MaxDepth {
		s.opts.Logger.Debug("max depth reached", "coord", node.Coordinate(), "depth", node.Depth)
		return nil
	}

	coord := node.Coordinate()
	declared, err := s.metadata.do(coord.String(), func() ([]artifact.Dependency, error) {
		return s.source.Dependencies(ctx, coord)
	})
	if err != nil {
		return s.fail(ctx, node, path, err)
	}

	for _, d := range declared {
		child, ok, err := s.child(ctx, node, path, d)
		if err != nil {
			return err
		}
		if ok {
			node.Children = append(node.Children, child)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, child := range node.Children {
		if child.Cycle || child.Err != nil {
			continue
		}
		childPath := path.extend(child.Dependency)
		select {
		case s.slots <- struct{}{}:
			g.Go(func() error {
				defer func() { <-s.slots }()
				return s.expand(gctx, child, childPath)
			})
		default:
			if err := s.expand(gctx, child, childPath); err != nil {
				_ = g.Wait()
				return err
			}
		}
	}
	return g.Wait()
}

// child turns a declared dependency of parent into a node. ok is false when
// the dependency is filtered out.
func (s *build) child(ctx context.Context, parent *Node, path branch, d artifact.Dependency) (*Node, bool, error) {
	premanaged := d.Coordinate.Version
	if m, ok := s.managed[d.Coordinate.GA()]; ok {
		d = d.Merge(m)
	}
	if path.excludes(d.Coordinate) {
		return nil, false, nil
	}

	depth := parent.Depth + 1
	scope, ok := artifact.EffectiveScope(parent.Scope, d.Scope, depth)
	if !ok {
		return nil, false, nil
	}
	scoped := d
	scoped.Scope = scope
	if s.filter != nil && !s.filter.Accept(scoped, path.deps) {
		return nil, false, nil
	}

	n := &Node{Dependency: d, Premanaged: premanaged, Scope: scope, Depth: depth}
	for _, ga := range path.ga {
		if ga == d.Coordinate.GA() {
			n.Cycle = true
			break
		}
	}

	version, err := s.version(ctx, d.Coordinate)
	if err != nil {
		return n, true, s.fail(ctx, n, path, err)
	}
	n.Dependency.Coordinate.Version = version
	return n, true, nil
}

// fail records err on optional nodes and returns it for all others.
func (s *build) fail(ctx context.Context, n *Node, path branch, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if n.Depth > 0 && n.Dependency.Optional {
		s.opts.Logger.Debug("optional dependency unresolved", "coord", n.Coordinate(), "err", err)
		n.Err = err
		n.Children = nil
		return nil
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeResolution
	}
	return errors.Wrap(code, err, "%s (via %s)", n.Dependency.Coordinate, path)
}

// version returns the concrete version for c, expanding ranges to their
// highest available match.
func (s *build) version(ctx context.Context, c artifact.Coordinate) (artifact.Version, error) {
	v := string(c.Version)
	switch {
	case v == "":
		return "", errors.New(errors.ErrCodeResolution, "no version for %s", c.GA())
	case !artifact.IsRange(v):
		return c.Version, nil
	}

	return s.ranges.do(c.GA()+"@"+v, func() (artifact.Version, error) {
		r, err := artifact.ParseRange(v)
		if err != nil {
			return "", err
		}
		found, err := s.versions.ListVersions(ctx, c.WithVersion(""), r, false)
		if err != nil {
			return "", err
		}
		if s.opts.Snapshots {
			snaps, err := s.versions.ListVersions(ctx, c.WithVersion(""), r, true)
			if err != nil {
				return "", err
			}
			found = append(found, snaps...)
		}
		latest, ok := artifact.Latest(found)
		if !ok {
			return "", errors.New(errors.ErrCodeNotFound, "no version of %s matches %s", c.GA(), r)
		}
		return latest, nil
	})
}

// memo runs each keyed computation once per build and shares the outcome,
// failures included.
type memo[T any] struct {
	group singleflight.Group
	done  sync.Map
}

type outcome[T any] struct {
	val T
	err error
}

func (m *memo[T]) do(key string, fn func() (T, error)) (T, error) {
	if v, ok := m.done.Load(key); ok {
		o := v.(outcome[T])
		return o.val, o.err
	}
	v, _, _ := m.group.Do(key, func() (any, error) {
		if v, ok := m.done.Load(key); ok {
			return v, nil
		}
		val, err := fn()
		o := outcome[T]{val: val, err: err}
		m.done.Store(key, o)
		return o, nil
	})
	o := v.(outcome[T])
	return o.val, o.err
}
