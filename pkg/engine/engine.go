// Package engine assembles the repository index, the artifact materializer,
// the POM reader and the graph builder into a resolution engine.
//
// Every [Engine] owns its collaborators: its memo, its in-flight fetches
// and its metrics registry are not shared with any other Engine in the
// process.
//
//	eng, err := engine.New(cfg)
//	if err != nil { ... }
//	defer eng.Close()
//
//	arts, err := eng.AllDependencies(ctx, artifact.Dependency{
//	    Coordinate: artifact.MustParseCoordinate("junit:junit:4.13"),
//	}, nil, graph.RuntimeFilter())
package engine

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mvnresolve/pkg/artifact"
	"github.com/matzehuels/mvnresolve/pkg/cache"
	"github.com/matzehuels/mvnresolve/pkg/errors"
	"github.com/matzehuels/mvnresolve/pkg/graph"
	"github.com/matzehuels/mvnresolve/pkg/localrepo"
	"github.com/matzehuels/mvnresolve/pkg/materialize"
	"github.com/matzehuels/mvnresolve/pkg/pom"
	"github.com/matzehuels/mvnresolve/pkg/repository"
	"github.com/matzehuels/mvnresolve/pkg/resolve"
)

// Option customizes an [Engine].
type Option func(*Engine)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithTransport replaces the HTTP transport used to reach remotes.
func WithTransport(t repository.Transport) Option { return func(e *Engine) { e.transport = t } }

// WithCache replaces the metadata cache selected by Config.MetadataCache.
// The Engine does not close a cache passed in this way.
func WithCache(c cache.Cache) Option { return func(e *Engine) { e.cache = c } }

// WithRegisterer additionally registers the engine's metrics with r.
func WithRegisterer(r prometheus.Registerer) Option { return func(e *Engine) { e.registerer = r } }

// Engine resolves artifacts and dependency trees. It is safe for concurrent
// use.
type Engine struct {
	cfg        Config
	logger     *log.Logger
	transport  repository.Transport
	cache      cache.Cache
	ownsCache  bool
	registerer prometheus.Registerer
	registry   *prometheus.Registry

	local        *localrepo.Repo
	index        *repository.Index
	materializer *materialize.Materializer
	source       *pom.Source

	closeOnce sync.Once
}

// New validates cfg and builds an Engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg = cfg.WithDefaults()
	e := &Engine{cfg: cfg, registry: prometheus.NewRegistry()}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	local, err := localrepo.Open(cfg.LocalRepository)
	if err != nil {
		return nil, err
	}
	e.local = local

	if e.cache == nil {
		c, err := openCache(cfg)
		if err != nil {
			return nil, err
		}
		e.cache, e.ownsCache = c, true
	}

	var reg prometheus.Registerer = e.registry
	if e.registerer != nil {
		reg = multiRegisterer{e.registry, e.registerer}
	}

	e.index, err = repository.NewIndex(repository.IndexConfig{
		Remotes:    cfg.Remotes(),
		Local:      local,
		Transport:  e.transport,
		Cache:      e.cache,
		Logger:     e.logger,
		Registerer: reg,
	})
	if err != nil {
		e.Close()
		return nil, err
	}
	e.materializer, err = materialize.New(e.index, e.index, materialize.Options{
		FetchTimeout: cfg.FetchTimeout,
		Logger:       e.logger,
		Registerer:   reg,
	})
	if err != nil {
		e.Close()
		return nil, err
	}
	e.source = pom.NewSource(e.materializer, e.logger)

	e.logger.Debug("engine ready", "config", cfg.String())
	return e, nil
}

func openCache(cfg Config) (cache.Cache, error) {
	var (
		c   cache.Cache
		err error
	)
	switch cfg.MetadataCache {
	case CacheFile:
		c, err = cache.NewFileCache(cfg.CacheDir)
	case CacheRedis:
		c, err = cache.DialRedis(context.Background(), cfg.RedisAddr)
	default:
		return cache.NewNullCache(), nil
	}
	if err != nil {
		return nil, err
	}
	if cfg.CachePrefix != "" {
		c = cache.Scoped(c, cfg.CachePrefix)
	}
	return c, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// Remotes returns the configured repositories in search order.
func (e *Engine) Remotes() []repository.Remote { return e.index.Remotes() }

// Metrics returns the engine's metrics registry.
func (e *Engine) Metrics() prometheus.Gatherer { return e.registry }

// Cache returns the metadata cache.
func (e *Engine) Cache() cache.Cache { return e.cache }

// ClearCache drops every cached metadata entry and the record of artifacts
// already materialized. Files in the local repository are kept.
func (e *Engine) ClearCache(ctx context.Context) error {
	e.materializer.Reset()
	if c, ok := e.cache.(cache.Clearer); ok {
		return c.Clear(ctx)
	}
	return nil
}

// Close releases the metadata cache if the Engine opened it. It is safe to
// call more than once.
func (e *Engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		if e.ownsCache && e.cache != nil {
			err = e.cache.Close()
		}
	})
	return err
}

// AllVersions lists the versions of group:artifactID starting with prefix,
// ascending. An empty prefix lists every version. Unreachable repositories
// are skipped.
func (e *Engine) AllVersions(ctx context.Context, group, artifactID, prefix string, snapshots bool) ([]artifact.Version, error) {
	return e.materializer.ResolveVersion(ctx, group, artifactID, prefix, snapshots)
}

// ResolveArtifact materializes c, which must carry a concrete version.
// extra repositories are searched after the configured ones.
func (e *Engine) ResolveArtifact(ctx context.Context, c artifact.Coordinate, extra ...repository.Remote) (artifact.Artifact, error) {
	return e.materializer.Resolve(ctx, c, extra...)
}

// CollectDependencies builds the dependency tree of root. managed entries
// supply versions, scopes and exclusions for dependencies that omit them.
// filter may be nil.
func (e *Engine) CollectDependencies(ctx context.Context, root artifact.Dependency, managed []artifact.Dependency, filter graph.Filter, extra ...repository.Remote) (*graph.Node, error) {
	if err := validateExtras(extra); err != nil {
		return nil, err
	}
	logger := e.logger.With("request", uuid.NewString())
	logger.Debug("collecting", "root", root.Coordinate)

	b := graph.NewBuilder(e.source.WithRepositories(extra...), e.index, graph.Options{
		MaxDepth:    e.cfg.MaxDepth,
		Concurrency: e.cfg.Concurrency,
		Snapshots:   e.cfg.Snapshots,
		Logger:      logger,
	})
	node, err := b.Build(ctx, root, managed, filter)
	if err != nil {
		logger.Debug("collect failed", "root", root.Coordinate, "err", err)
		return nil, err
	}
	logger.Debug("collected", "root", node.Coordinate(), "nodes", graph.Count(node))
	return node, nil
}

// AllDependencies resolves the dependency tree of root and materializes
// every selected artifact, root first. Artifacts of optional dependencies
// that cannot be materialized are left out; any other failure is returned.
func (e *Engine) AllDependencies(ctx context.Context, root artifact.Dependency, managed []artifact.Dependency, filter graph.Filter, extra ...repository.Remote) ([]artifact.Artifact, error) {
	node, err := e.CollectDependencies(ctx, root, managed, filter, extra...)
	if err != nil {
		return nil, err
	}
	selected := resolve.Flatten(node)
	for _, c := range resolve.Conflicts(node) {
		e.logger.Debug("version conflict", "ga", c.GA, "winner", c.Winner, "omitted", c.Loser)
	}

	results := make([]*artifact.Artifact, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for i, sel := range selected {
		g.Go(func() error {
			a, err := e.materializer.Resolve(gctx, sel.Coordinate(), extra...)
			if err != nil {
				if sel.Node.Dependency.Optional {
					e.logger.Debug("skipping optional artifact", "coord", sel.Coordinate(), "err", err)
					return nil
				}
				return err
			}
			sel.Node.Artifact = &a
			results[i] = &a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	out := make([]artifact.Artifact, 0, len(results))
	for _, a := range results {
		if a != nil {
			out = append(out, *a)
		}
	}
	return out, nil
}

func validateExtras(extra []repository.Remote) error {
	for _, r := range extra {
		if err := r.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "extra repository")
		}
	}
	return nil
}

// multiRegisterer registers with every member, unregistering from the
// earlier ones if a later one refuses.
type multiRegisterer []prometheus.Registerer

func (m multiRegisterer) Register(c prometheus.Collector) error {
	for i, r := range m {
		if err := r.Register(c); err != nil {
			for _, done := range m[:i] {
				done.Unregister(c)
			}
			return err
		}
	}
	return nil
}

func (m multiRegisterer) MustRegister(cs ...prometheus.Collector) {
	for _, c := range cs {
		if err := m.Register(c); err != nil {
			panic(err)
		}
	}
}

func (m multiRegisterer) Unregister(c prometheus.Collector) bool {
	ok := true
	for _, r := range m {
		ok = r.Unregister(c) && ok
	}
	return ok
}
