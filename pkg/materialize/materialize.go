// Package materialize turns coordinates into local files with at most one
// fetch in flight per coordinate.
//
// Concurrent [Materializer.Resolve] calls for the same coordinate share a
// single fetch. Successful results are kept for the lifetime of the
// Materializer; failures are not, so the next call fetches again.
//
// The shared fetch does not belong to any one caller. It runs on a context
// detached from the caller that started it and is bounded by the fetch
// timeout instead. A caller whose own context ends stops waiting and gets
// ctx.Err(); the fetch carries on for everyone else.
package materialize

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/mvnresolve/pkg/artifact"
	"github.com/matzehuels/mvnresolve/pkg/errors"
	"github.com/matzehuels/mvnresolve/pkg/graph"
	"github.com/matzehuels/mvnresolve/pkg/httputil"
	"github.com/matzehuels/mvnresolve/pkg/repository"
)

// DefaultFetchTimeout bounds one shared fetch.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher downloads an artifact; [repository.Index] implements it.
type Fetcher interface {
	FetchArtifact(ctx context.Context, c artifact.Coordinate, extra []repository.Remote) (artifact.Artifact, error)
}

// Options configures a [Materializer].
type Options struct {
	FetchTimeout time.Duration         // Bound on one shared fetch (default: 30s)
	Logger       *log.Logger           // Defaults to log.Default()
	Registerer   prometheus.Registerer // Receives the metrics; nil leaves them unregistered
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return opts
}

// Materializer resolves coordinates to local artifacts. It is safe for
// concurrent use.
type Materializer struct {
	fetcher  Fetcher
	versions graph.VersionLister
	opts     Options
	metrics  *Metrics

	group singleflight.Group
	memo  sync.Map // coordinate string → artifact.Artifact
}

// New returns a Materializer downloading through fetcher and listing
// versions through versions.
func New(fetcher Fetcher, versions graph.VersionLister, opts Options) (*Materializer, error) {
	opts = opts.WithDefaults()
	m := &Materializer{
		fetcher:  fetcher,
		versions: versions,
		opts:     opts,
		metrics:  newMetrics(),
	}
	if opts.Registerer != nil {
		if err := m.metrics.register(opts.Registerer); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "register materializer metrics")
		}
	}
	return m, nil
}

// Metrics returns the materializer's counters.
func (m *Materializer) Metrics() *Metrics { return m.metrics }

// Resolve returns c materialized in the local repository. c must carry a
// concrete version. extra repositories are searched after the configured
// ones; when the fetch is shared, the extras of the caller that started it
// apply.
func (m *Materializer) Resolve(ctx context.Context, c artifact.Coordinate, extra ...repository.Remote) (artifact.Artifact, error) {
	if c.Version == "" || artifact.IsRange(string(c.Version)) {
		return artifact.Artifact{}, errors.New(errors.ErrCodeMalformedCoordinate, "%s: a concrete version is required", c)
	}
	key := c.String()
	if a, ok := m.memo.Load(key); ok {
		m.metrics.MemoHits.Inc()
		return a.(artifact.Artifact), nil
	}

	ch := m.group.DoChan(key, func() (any, error) {
		if a, ok := m.memo.Load(key); ok {
			return a, nil
		}
		return m.fetch(context.WithoutCancel(ctx), key, c, extra)
	})

	select {
	case res := <-ch:
		if res.Shared {
			m.metrics.Shared.Inc()
		}
		if res.Err != nil {
			return artifact.Artifact{}, res.Err
		}
		return res.Val.(artifact.Artifact), nil
	case <-ctx.Done():
		return artifact.Artifact{}, ctx.Err()
	}
}

func (m *Materializer) fetch(ctx context.Context, key string, c artifact.Coordinate, extra []repository.Remote) (artifact.Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, m.opts.FetchTimeout)
	defer cancel()

	m.metrics.Fetches.Inc()
	start := time.Now()
	a, err := m.fetcher.FetchArtifact(ctx, c, extra)
	if err != nil {
		m.metrics.Failures.Inc()
		if stderrors.Is(err, context.DeadlineExceeded) {
			err = errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s exceeded %s", c, m.opts.FetchTimeout)
		}
		if errors.Temporary(err) {
			err = httputil.Retryable(err)
		}
		m.opts.Logger.Debug("fetch failed", "coord", key, "err", err)
		return artifact.Artifact{}, err
	}
	m.memo.Store(key, a)
	m.opts.Logger.Debug("materialized", "coord", key, "repo", a.Repository, "elapsed", time.Since(start))
	return a, nil
}

// FetchArtifact is [Materializer.Resolve] with the [Fetcher] signature, so a
// Materializer can stand in for the repository index.
func (m *Materializer) FetchArtifact(ctx context.Context, c artifact.Coordinate, extra []repository.Remote) (artifact.Artifact, error) {
	return m.Resolve(ctx, c, extra...)
}

// ResolveVersion lists the versions of group:artifactID starting with
// prefix, ascending. An empty prefix lists every version. Repositories that
// fail contribute nothing; only malformed input and cancellation are errors.
func (m *Materializer) ResolveVersion(ctx context.Context, group, artifactID, prefix string, snapshots bool) ([]artifact.Version, error) {
	c, err := artifact.ParseGA(group + ":" + artifactID)
	if err != nil {
		return nil, err
	}
	r, err := artifact.PrefixRange(prefix)
	if err != nil {
		return nil, err
	}
	return m.versions.ListVersions(ctx, c, r, snapshots)
}

// Reset empties the success memo so later calls look every coordinate up
// again. Fetches already in flight are unaffected.
func (m *Materializer) Reset() {
	m.memo.Clear()
}
