// Package config loads engine configuration from TOML or YAML files.
//
// A file only needs to name what differs from [Default]:
//
//	local_repository = "/var/cache/m2"
//	fetch_timeout = "10s"
//
//	[[repositories]]
//	id = "central"
//	url = "https://repo.maven.apache.org/maven2"
//
//	[[repositories]]
//	id = "acme-snapshots"
//	url = "https://maven.acme.example/snapshots"
//	update = "daily"
//
// Listing repositories replaces the default list rather than extending it.
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/mvnresolve/pkg/engine"
	"github.com/matzehuels/mvnresolve/pkg/errors"
)

const appName = "mvnresolve"

// CentralURL is the address of Maven Central.
const CentralURL = "https://repo.maven.apache.org/maven2"

// Default returns a configuration searching Maven Central, with the local
// repository and the metadata cache under the user's cache directory.
func Default() engine.Config {
	base := CacheDir()
	return engine.Config{
		LocalRepository: filepath.Join(base, "repository"),
		Repositories:    []engine.RepositoryConfig{{ID: "central", URL: CentralURL}},
		MetadataCache:   engine.CacheFile,
		CacheDir:        filepath.Join(base, "metadata"),
	}.WithDefaults()
}

// CacheDir returns the base cache directory, following XDG_CACHE_HOME when
// set (~/.cache/mvnresolve otherwise).
func CacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}

// Load reads path over [Default] and validates the result. The format is
// chosen by extension: .toml, .yaml or .yml.
func Load(path string) (engine.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes data in the format named by ext over [Default] and
// validates the result.
func Parse(data []byte, ext string) (engine.Config, error) {
	cfg := Default()
	var err error
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		var md toml.MetaData
		md, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				err = stderrors.New("unknown key " + undecoded[0].String())
			}
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&cfg); stderrors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return engine.Config{}, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q", ext)
	}
	if err != nil {
		return engine.Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}

	cfg.LocalRepository = expandHome(cfg.LocalRepository)
	cfg.CacheDir = expandHome(cfg.CacheDir)
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
