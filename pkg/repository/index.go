package repository

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/mvnresolve/pkg/artifact"
	"github.com/matzehuels/mvnresolve/pkg/cache"
	"github.com/matzehuels/mvnresolve/pkg/errors"
	"github.com/matzehuels/mvnresolve/pkg/localrepo"
)

// LocalRepositoryID is reported as the source of artifacts that were
// already present in the local repository.
const LocalRepositoryID = "local"

// IndexConfig holds the collaborators of an [Index].
type IndexConfig struct {
	Remotes   []Remote        // searched in order
	Local     *localrepo.Repo // required
	Transport Transport       // nil selects NewHTTPTransport(0)
	Cache     cache.Cache     // nil disables metadata caching
	Logger    *log.Logger     // nil selects log.Default()

	// Registerer receives the index metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
}

// Index answers version and artifact queries against an ordered list of
// remotes fronted by the local repository. It is safe for concurrent use.
type Index struct {
	remotes   []Remote
	local     *localrepo.Repo
	transport Transport
	cache     cache.Cache
	logger    *log.Logger
	lookups   *prometheus.CounterVec
}

// NewIndex validates the remotes and returns an index over them.
func NewIndex(cfg IndexConfig) (*Index, error) {
	if cfg.Local == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "local repository is required")
	}
	if err := ValidateAll(cfg.Remotes); err != nil {
		return nil, err
	}
	idx := &Index{
		remotes:   append([]Remote(nil), cfg.Remotes...),
		local:     cfg.Local,
		transport: cfg.Transport,
		cache:     cfg.Cache,
		logger:    cfg.Logger,
		lookups:   prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mvnresolve",
			Name:      "metadata_requests_total",
			Help:      "Repository metadata lookups by where they were answered from.",
		}, []string{"source"}),
	}
	if idx.transport == nil {
		idx.transport = NewHTTPTransport(0)
	}
	if idx.cache == nil {
		idx.cache = cache.NewNullCache()
	}
	if idx.logger == nil {
		idx.logger = log.Default()
	}
	if cfg.Registerer != nil {
		if err := cfg.Registerer.Register(idx.lookups); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "register index metrics")
		}
	}
	return idx, nil
}

// Remotes returns a copy of the configured remotes in search order.
func (x *Index) Remotes() []Remote { return append([]Remote(nil), x.remotes...) }

// Local returns the local repository.
func (x *Index) Local() *localrepo.Repo { return x.local }

// ListVersions returns the versions of c's group:artifact that fall in r,
// ascending and without duplicates. Only repositories whose policy matches
// the requested kind are consulted: snapshot repositories when snapshots is
// set, release repositories otherwise.
//
// A repository that cannot be reached or returns garbage contributes
// nothing; an artifact unknown everywhere yields an empty list. Only
// cancellation of ctx is reported as an error.
func (x *Index) ListVersions(ctx context.Context, c artifact.Coordinate, r artifact.Range, snapshots bool) ([]artifact.Version, error) {
	seen := make(map[artifact.Version]bool)
	var out []artifact.Version

	for _, remote := range x.remotes {
		if !remote.Serves(snapshots) {
			continue
		}
		m, err := x.metadata(ctx, remote, c.MetadataPath())
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !errors.Is(err, errors.ErrCodeNotFound) {
				x.logger.Warn("version listing failed", "repo", remote.ID, "artifact", c.GA(), "err", err)
			}
			continue
		}
		for _, v := range m.AllVersions() {
			if seen[v] || (v.IsSnapshot() && !snapshots) || !r.Contains(v) {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	artifact.SortVersions(out)
	return out, nil
}

func (x *Index) metadata(ctx context.Context, remote Remote, path string) (*Metadata, error) {
	key := cache.MetadataKey(remote.ID, path)
	ttl, cacheable := remote.MetadataTTL()

	if cacheable {
		if data, ok, err := x.cache.Get(ctx, key); err == nil && ok {
			if m, err := ParseMetadata(data); err == nil {
				x.lookups.WithLabelValues("cache").Inc()
				return m, nil
			}
			_ = x.cache.Delete(ctx, key)
		}
	}

	x.lookups.WithLabelValues("remote").Inc()
	data, err := x.transport.Get(ctx, remote.URL+"/"+path)
	if err != nil {
		return nil, err
	}
	m, err := ParseMetadata(data)
	if err != nil {
		return nil, err
	}
	if cacheable {
		if err := x.cache.Set(ctx, key, data, ttl); err != nil {
			x.logger.Debug("metadata cache write failed", "key", key, "err", err)
		}
	}
	return m, nil
}

// FetchArtifact locates c, which must have a concrete version, and returns
// it materialized in the local repository.
//
// The local repository is searched first, then every configured remote that
// serves c's kind of version, then the extra remotes in the order given.
// The first repository holding an intact copy wins. Copies whose .sha1
// sidecar does not match are skipped.
func (x *Index) FetchArtifact(ctx context.Context, c artifact.Coordinate, extra []Remote) (artifact.Artifact, error) {
	if path, ok := x.local.Lookup(c); ok {
		return artifact.Artifact{Coordinate: c, File: path, Repository: LocalRepositoryID}, nil
	}

	var (
		timedOut bool
		lastErr  error
		tried    []string
	)
	for _, remote := range x.candidates(c.IsSnapshot(), extra) {
		if err := ctx.Err(); err != nil {
			return artifact.Artifact{}, err
		}
		tried = append(tried, remote.ID)

		data, err := x.download(ctx, remote, c)
		if err != nil {
			if ctx.Err() != nil {
				return artifact.Artifact{}, ctx.Err()
			}
			if errors.Is(err, errors.ErrCodeTimeout) {
				timedOut = true
			}
			if !errors.Is(err, errors.ErrCodeNotFound) {
				x.logger.Warn("artifact download failed", "repo", remote.ID, "coord", c, "err", err)
			}
			lastErr = err
			continue
		}

		path, err := x.local.Store(c, data)
		if err != nil {
			return artifact.Artifact{}, errors.Wrap(errors.ErrCodeInternal, err, "store %s in local repository", c)
		}
		x.logger.Debug("downloaded", "coord", c, "repo", remote.ID, "bytes", len(data))
		return artifact.Artifact{Coordinate: c, File: path, Repository: remote.ID}, nil
	}

	code := errors.ErrCodeNotFound
	if timedOut {
		code = errors.ErrCodeTimeout
	}
	return artifact.Artifact{}, errors.Wrap(code, lastErr, "%s not found in %s", c, describeTried(tried))
}

func describeTried(ids []string) string {
	if len(ids) == 0 {
		return "local repository (no remote serves this version kind)"
	}
	return "local repository, " + strings.Join(ids, ", ")
}

// candidates lists the remotes to search for a version kind: the configured
// ones first, then extras that do not repeat a configured URL.
func (x *Index) candidates(snapshot bool, extra []Remote) []Remote {
	urls := make(map[string]bool, len(x.remotes))
	var out []Remote
	for _, r := range x.remotes {
		urls[r.URL] = true
		if r.Serves(snapshot) {
			out = append(out, r)
		}
	}
	for _, r := range extra {
		if urls[r.URL] || !r.Serves(snapshot) {
			continue
		}
		urls[r.URL] = true
		out = append(out, r)
	}
	return out
}

func (x *Index) download(ctx context.Context, remote Remote, c artifact.Coordinate) ([]byte, error) {
	fileVersion := c.Version
	if c.IsSnapshot() {
		if m, err := x.metadata(ctx, remote, c.VersionMetadataPath()); err == nil {
			fileVersion = m.SnapshotFileVersion(c)
		}
	}

	url := remote.URL + "/" + c.FilePath(fileVersion)
	data, err := x.transport.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := x.verify(ctx, url, data); err != nil {
		return nil, err
	}
	return data, nil
}

// verify checks data against the .sha1 sidecar at url. A missing or
// unreadable sidecar is not an error.
func (x *Index) verify(ctx context.Context, url string, data []byte) error {
	sidecar, err := x.transport.Get(ctx, url+".sha1")
	if err != nil {
		return nil
	}
	fields := strings.Fields(string(sidecar))
	if len(fields) == 0 {
		return nil
	}
	want := strings.ToLower(fields[0])
	sum := sha1.Sum(data)
	if got := hex.EncodeToString(sum[:]); got != want {
		return errors.New(errors.ErrCodeCorrupt, "%s: sha1 %s does not match %s", url, got, want)
	}
	return nil
}
