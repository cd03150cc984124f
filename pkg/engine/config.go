package engine

import (
	"fmt"
	"time"

	"github.com/matzehuels/mvnresolve/pkg/errors"
	"github.com/matzehuels/mvnresolve/pkg/graph"
	"github.com/matzehuels/mvnresolve/pkg/materialize"
	"github.com/matzehuels/mvnresolve/pkg/repository"
)

// Metadata cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// RepositoryConfig names one remote repository. Update is the metadata
// update policy of the repository's enabled half: always, daily, never or
// interval:N. It defaults to always for snapshot repositories and never
// otherwise.
type RepositoryConfig struct {
	ID     string `toml:"id" yaml:"id"`
	URL    string `toml:"url" yaml:"url"`
	Update string `toml:"update,omitempty" yaml:"update,omitempty"`
}

// Remote converts the entry to a [repository.Remote].
func (r RepositoryConfig) Remote() repository.Remote {
	return repository.NewRemote(r.ID, r.URL, r.Update)
}

// Config holds everything an [Engine] needs to know about its environment.
type Config struct {
	LocalRepository string             `toml:"local_repository" yaml:"local_repository"`
	Repositories    []RepositoryConfig `toml:"repositories" yaml:"repositories"`

	FetchTimeout time.Duration `toml:"fetch_timeout" yaml:"fetch_timeout"` // Bound on one shared fetch (default: 30s)

	MetadataCache string `toml:"metadata_cache" yaml:"metadata_cache"` // file, redis or none (default: file if CacheDir is set, else none)
	CacheDir      string `toml:"cache_dir" yaml:"cache_dir"`
	RedisAddr     string `toml:"redis_addr" yaml:"redis_addr"`
	CachePrefix   string `toml:"cache_prefix" yaml:"cache_prefix"` // Key scope for engines sharing one cache

	Concurrency int  `toml:"concurrency" yaml:"concurrency"` // Subtrees expanded in parallel (default: 8)
	MaxDepth    int  `toml:"max_depth" yaml:"max_depth"`     // Maximum tree depth (default: 50)
	Snapshots   bool `toml:"snapshots" yaml:"snapshots"`     // Let version ranges select snapshots
}

// WithDefaults returns a copy of Config with zero values replaced by defaults.
func (c Config) WithDefaults() Config {
	cfg := c
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = materialize.DefaultFetchTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = graph.DefaultConcurrency
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = graph.DefaultMaxDepth
	}
	if cfg.MetadataCache == "" {
		cfg.MetadataCache = CacheNone
		if cfg.CacheDir != "" {
			cfg.MetadataCache = CacheFile
		}
	}
	return cfg
}

// Remotes returns the configured repositories in search order.
func (c Config) Remotes() []repository.Remote {
	out := make([]repository.Remote, len(c.Repositories))
	for i, r := range c.Repositories {
		out[i] = r.Remote()
	}
	return out
}

// Validate reports the first problem with the configuration. It expects
// defaults to have been applied.
func (c Config) Validate() error {
	if c.LocalRepository == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "local_repository is required")
	}
	switch c.MetadataCache {
	case CacheFile:
		if c.CacheDir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "metadata_cache %q requires cache_dir", c.MetadataCache)
		}
	case CacheRedis:
		if c.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "metadata_cache %q requires redis_addr", c.MetadataCache)
		}
	case CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown metadata_cache %q", c.MetadataCache)
	}
	if err := repository.ValidateAll(c.Remotes()); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "repositories")
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("local=%s remotes=%d cache=%s", c.LocalRepository, len(c.Repositories), c.MetadataCache)
}
